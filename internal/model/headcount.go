package model

import "fmt"

// HeadCount is a bird quantity split by sex. Total is always Male + Female.
type HeadCount struct {
	Male   int `json:"male"`
	Female int `json:"female"`
	Total  int `json:"total"`
}

// NewHeadCount builds a consistent HeadCount.
func NewHeadCount(male, female int) HeadCount {
	return HeadCount{Male: male, Female: female, Total: male + female}
}

// Normalize fills a zero Total from Male and Female, and reports a mismatch
// when a caller supplied a Total that disagrees with its parts.
func (h HeadCount) Normalize() (HeadCount, error) {
	if h.Male < 0 || h.Female < 0 || h.Total < 0 {
		return h, fmt.Errorf("quantities must not be negative")
	}
	sum := h.Male + h.Female
	if h.Total == 0 {
		h.Total = sum
		return h, nil
	}
	if h.Total != sum {
		return h, fmt.Errorf("total %d does not equal male %d + female %d", h.Total, h.Male, h.Female)
	}
	return h, nil
}

func (h HeadCount) Add(o HeadCount) HeadCount {
	return NewHeadCount(h.Male+o.Male, h.Female+o.Female)
}

func (h HeadCount) Sub(o HeadCount) HeadCount {
	return NewHeadCount(h.Male-o.Male, h.Female-o.Female)
}

// Fits reports whether each component of h is within limit.
func (h HeadCount) Fits(limit HeadCount) bool {
	return h.Male <= limit.Male && h.Female <= limit.Female
}

// Negative reports whether any component is below zero.
func (h HeadCount) Negative() bool {
	return h.Male < 0 || h.Female < 0
}

func (h HeadCount) IsZero() bool {
	return h.Male == 0 && h.Female == 0
}

// ClampZero replaces negative components with zero.
func (h HeadCount) ClampZero() HeadCount {
	return NewHeadCount(max(h.Male, 0), max(h.Female, 0))
}

// SumHeadCounts adds every element of counts.
func SumHeadCounts(counts ...HeadCount) HeadCount {
	var out HeadCount
	for _, c := range counts {
		out = out.Add(c)
	}
	return out
}
