package content

import "sort"

// TruncateToWordBand trims an over-length document down toward
// maxWords by dropping whole paragraphs from the tail of trimmable
// sections, highest trim priority first. Sentences are never split;
// each section keeps at least one paragraph; FAQ items above the
// schema minimum are dropped last. Returns the number of paragraphs
// and FAQ items removed.
func (c *LandingContent) TruncateToWordBand(maxWords int) int {
	if maxWords <= 0 || c.WordCount() <= maxWords {
		return 0
	}

	removed := 0

	refs := c.orderedSections()
	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].trimPriority > refs[j].trimPriority
	})

	for _, ref := range refs {
		for len(*ref.paragraphs) > 1 && c.WordCount() > maxWords {
			*ref.paragraphs = (*ref.paragraphs)[:len(*ref.paragraphs)-1]
			removed++
		}
		if c.WordCount() <= maxWords {
			return removed
		}
	}

	// Extra neighborhood cards go next; keep at least three.
	for len(c.Sections.Neighborhoods.Cards) > 3 && c.WordCount() > maxWords {
		c.Sections.Neighborhoods.Cards = c.Sections.Neighborhoods.Cards[:len(c.Sections.Neighborhoods.Cards)-1]
		removed++
	}

	// FAQ items above the schema floor are the last thing to go.
	for len(c.FAQ) > MinFAQItems && c.WordCount() > maxWords {
		c.FAQ = c.FAQ[:len(c.FAQ)-1]
		removed++
	}

	return removed
}
