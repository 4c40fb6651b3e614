package shm

import "slices"

type slot struct {
	offset int
	size   int
	busy   bool
}

// slots carves a fixed amount of memory into regions. The list is
// ordered by offset and covers everything below used without gaps. No
// two free regions are adjacent and the last region is always busy.
//
// Requests are served from the smallest free region that fits, which
// is split if it is bigger than needed. New regions are only taken
// from the unused space at the end when no free region is big enough.
type slots struct {
	cap  int
	used int
	list []slot
}

// alloc returns the offset of a region of size bytes, or false if
// there isn't a contiguous run of free memory that big.
func (s *slots) alloc(size int) (int, bool) {
	best := -1
	for i, sl := range s.list {
		if sl.busy || (sl.size < size) {
			continue
		}
		if (best < 0) || (sl.size < s.list[best].size) {
			best = i
		}
	}
	if best >= 0 {
		offset, rest := s.list[best].offset, s.list[best].size-size
		s.list[best] = slot{offset: offset, size: size, busy: true}
		if rest > 0 {
			s.list = slices.Insert(s.list, best+1, slot{offset: offset + size, size: rest})
		}
		return offset, true
	}

	if s.cap-s.used < size {
		return 0, false
	}

	offset := s.used
	s.list = append(s.list, slot{offset: offset, size: size, busy: true})
	s.used += size
	return offset, true
}

// free marks the region at offset as available and merges it with
// free neighbours. A free region at the end is given back to the
// unused space.
func (s *slots) free(offset int) {
	i := slices.IndexFunc(s.list, func(sl slot) bool { return sl.offset == offset })
	if (i < 0) || !s.list[i].busy {
		return
	}
	s.list[i].busy = false

	if (i+1 < len(s.list)) && !s.list[i+1].busy {
		s.list[i].size += s.list[i+1].size
		s.list = slices.Delete(s.list, i+1, i+2)
	}
	if (i > 0) && !s.list[i-1].busy {
		s.list[i-1].size += s.list[i].size
		s.list = slices.Delete(s.list, i, i+1)
		i--
	}

	if i == len(s.list)-1 {
		s.used = s.list[i].offset
		s.list = s.list[:i]
	}
}

// busy returns the total size of the regions in use.
func (s *slots) busy() (n int) {
	for _, sl := range s.list {
		if sl.busy {
			n += sl.size
		}
	}
	return n
}

// available returns the size of the largest request that alloc could
// currently satisfy.
func (s *slots) available() int {
	n := s.cap - s.used
	for _, sl := range s.list {
		if !sl.busy {
			n = max(n, sl.size)
		}
	}
	return n
}
