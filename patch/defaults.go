package patch

import "github.com/poiesic/factmap/core"

// DefaultRules returns the curated edits applied to the article dataset.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "add-julie-oconnor",
			Selector: &Selector{
				Column:   core.ColTitle,
				Contains: "Shanmugam's comments in Parliament on 4 October 2021",
			},
			Action: ActionAppend,
			Entry:  "Julie O'Connor",
		},
		{
			Name:        "shorten-nuss",
			Action:      ActionReplace,
			Entry:       "National University of Singapore Society",
			Replacement: "NUSS",
		},
		{
			Name: "thum-ping-tjin-remove-sdp",
			Selector: &Selector{
				Column:   core.ColTitle,
				Contains: "Thum Ping Tjin",
			},
			Action:  ActionRemove,
			Entries: []string{"Singapore Democratic Party"},
		},
		{
			Name: "sdp-article-remove-toc",
			Selector: &Selector{
				Column:   core.ColTitle,
				Contains: "Falsehoods Posted By The Singapore Democratic Party",
			},
			Action:  ActionRemove,
			Entries: []string{"The Online Citizen"},
		},
		{
			// Workers' Party politicians were never targets.
			Name:    "drop-workers-party",
			Action:  ActionDrop,
			Entries: []string{"Pritam Singh", "Sylvia Lim", "Low Thia Khiang"},
		},
	}
}
