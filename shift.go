package xlreport

// ShiftRows moves rows [start, end] by n rows (down when n > 0, up when
// n < 0). Rows keep their heights unless resetHeight is set. Rows already
// at the destination are replaced, and merged regions touching replaced
// rows are deleted. Merged regions that lie entirely inside the moved block
// move with it.
func (s *Sheet) ShiftRows(start, end, n int, resetHeight bool) {
	if n == 0 {
		return
	}
	if start < 0 {
		start = 0
	}
	if end < start {
		return
	}
	if start+n < 0 {
		// rows that would land above the first row are dropped
		for r := start; r < -n && r <= end; r++ {
			delete(s.rows, r)
		}
		start = -n
		if end < start {
			return
		}
	}

	moved := make(map[int]*RowData)
	for r := start; r <= end; r++ {
		if rd, ok := s.rows[r]; ok {
			moved[r+n] = rd
			delete(s.rows, r)
		}
	}
	for r := start + n; r <= end+n; r++ {
		delete(s.rows, r)
	}
	for r, rd := range moved {
		if resetHeight {
			rd.Height = 0
		}
		s.rows[r] = rd
	}

	kept := s.merges[:0]
	for _, m := range s.merges {
		inside := m.FirstRow >= start && m.LastRow <= end
		switch {
		case inside:
			kept = append(kept, m.Offset(n))
		case m.IntersectsRows(start+n, end+n):
			// overwritten by the moved block
		default:
			kept = append(kept, m)
		}
	}
	s.merges = kept
}

// InsertRows opens a gap of n empty rows at row r by shifting everything
// below down.
func (s *Sheet) InsertRows(r, n int) {
	if last := s.LastRowNum(); r <= last {
		s.ShiftRows(r, last, n, false)
	}
}

// CopyRow duplicates row src into row dst: cells with values, styles,
// comments, hyperlinks and formula text, plus the row height. Regions
// anchored at dst are deleted first and every region anchored at src is
// recreated at dst with the same column span and row count.
func (s *Sheet) CopyRow(src, dst int) {
	if src == dst {
		return
	}
	if rd := s.rows[src]; rd != nil {
		s.rows[dst] = rd.Clone()
	} else {
		s.rows[dst] = newRowData()
	}

	s.DeleteMergedRegionsAt(dst, len(s.merges))
	for _, m := range s.anchoredAt(src) {
		s.AddMergedRegion(NewMergedRegion(dst, dst+m.Height()-1, m.FirstCol, m.LastCol))
	}
}

// CopyRowTo duplicates row src into dst, first shifting rows from dst
// down by one when dst is already occupied.
func (s *Sheet) CopyRowTo(src, dst int) {
	if _, ok := s.rows[dst]; ok {
		s.ShiftRows(dst, s.LastRowNum(), 1, false)
		if src >= dst {
			src++
		}
	}
	s.CopyRow(src, dst)
}

// CopyCell copies one cell within the sheet, including style, comment and
// hyperlink. A missing source clears the destination.
func (s *Sheet) CopyCell(srcRow, srcCol, dstRow, dstCol int) {
	src := s.Cell(srcRow, srcCol)
	if src == nil {
		if rd := s.rows[dstRow]; rd != nil {
			delete(rd.Cells, dstCol)
		}
		return
	}
	s.GetOrCreateRow(dstRow).Cells[dstCol] = src.Clone()
}

func (s *Sheet) anchoredAt(row int) []MergedRegion {
	var res []MergedRegion
	for _, m := range s.merges {
		if m.FirstRow == row {
			res = append(res, m)
		}
	}
	return res
}

// MergedRegions returns a copy of the sheet's merged regions.
func (s *Sheet) MergedRegions() []MergedRegion {
	return append([]MergedRegion(nil), s.merges...)
}

// NumMergedRegions returns the number of merged regions.
func (s *Sheet) NumMergedRegions() int {
	return len(s.merges)
}

// AddMergedRegion adds a region and reports whether it was added. Single
// cell regions and exact duplicates are ignored. Existing regions that
// overlap the new one are removed.
func (s *Sheet) AddMergedRegion(m MergedRegion) bool {
	if m.IsSingleCell() || m.FirstRow < 0 || m.FirstCol < 0 {
		return false
	}
	for _, o := range s.merges {
		if o == m {
			return false
		}
	}
	kept := s.merges[:0]
	for _, o := range s.merges {
		if !o.Overlaps(m) {
			kept = append(kept, o)
		}
	}
	s.merges = append(kept, m)
	return true
}

// RemoveMergedRegion removes the region at index i.
func (s *Sheet) RemoveMergedRegion(i int) {
	if i < 0 || i >= len(s.merges) {
		return
	}
	s.merges = append(s.merges[:i], s.merges[i+1:]...)
}

// DeleteMergedRegionsAt removes regions anchored at row among the first
// limit regions and returns how many were removed.
func (s *Sheet) DeleteMergedRegionsAt(row, limit int) int {
	removed := 0
	for i := min(limit, len(s.merges)) - 1; i >= 0; i-- {
		if s.merges[i].FirstRow == row {
			s.RemoveMergedRegion(i)
			removed++
		}
	}
	return removed
}

// MergedRegionAt returns the index of the region containing (row, col).
func (s *Sheet) MergedRegionAt(row, col int) (int, bool) {
	for i, m := range s.merges {
		if m.Contains(row, col) {
			return i, true
		}
	}
	return -1, false
}

// MergedRegion returns the region at index i.
func (s *Sheet) MergedRegion(i int) MergedRegion {
	return s.merges[i]
}
