package roff

import (
	"regexp"
	"strings"
)

// Man page conventions place each sentence on its own line so diffs and
// patches stay small. Sentence breaks are detected heuristically: split
// after runs of terminating punctuation, keeping closing quotes with the
// sentence, and never after a recognized abbreviation.
var sentenceBreak = regexp.MustCompile(`[.!?]+['"]*\s+`)

// Abbreviations that end with a period but do not end a sentence.
// Adapted from the Unicode CLDR English segmentation suppressions.
var suppressions = []string{
	"L.P.", "Alt.", "Approx.", "E.G.", "O.", "Maj.", "Misc.", "P.O.", "J.D.",
	"Jam.", "Card.", "Dec.", "Sept.", "MR.", "Long.", "Hat.", "G.", "Link.",
	"DC.", "D.C.", "M.T.", "Hz.", "Mrs.", "By.", "Act.", "Var.", "N.V.", "Aug.",
	"B.", "S.A.", "Up.", "Job.", "Num.", "M.I.T.", "Ok.", "Org.", "Ex.", "Cont.",
	"U.", "Mart.", "Fn.", "Abs.", "Lt.", "OK.", "Z.", "E.", "Kb.", "Est.", "A.M.",
	"L.A.", "Prof.", "U.S.", "Nov.", "Ph.D.", "Mar.", "I.T.", "exec.", "Jan.", "N.Y.",
	"X.", "Md.", "Op.", "vs.", "D.A.", "A.D.", "R.L.", "P.M.", "Or.", "M.R.", "Cap.",
	"PC.", "Feb.", "Exec.", "I.e.", "Sep.", "Gb.", "K.", "U.S.C.", "Mt.", "S.", "A.S.",
	"C.O.D.", "Capt.", "Col.", "In.", "C.F.", "Adj.", "AD.", "I.D.", "Mgr.", "R.T.",
	"B.V.", "M.", "Conn.", "Yr.", "Rev.", "Phys.", "pp.", "Ms.", "To.", "Sgt.", "J.K.",
	"Nr.", "Jun.", "Fri.", "S.A.R.", "Lev.", "Lt.Cdr.", "Def.", "F.", "Do.", "Joe.",
	"Id.", "Mr.", "Dept.", "Is.", "Pvt.", "Diff.", "Hon.B.A.", "Q.", "Mb.", "On.",
	"Min.", "J.B.", "Ed.", "AB.", "A.", "S.p.A.", "I.", "a.m.", "Comm.", "Go.", "VS.",
	"L.", "All.", "PP.", "P.V.", "T.", "K.R.", "Etc.", "D.", "Adv.", "Lib.", "E.g.", "Pro.",
	"U.S.A.", "S.E.", "AA.", "Rep.", "Sq.", "As.", "LLC.", "LTD.", "i.e.", "e.g",
}

func suppressed(seg string) bool {
	seg = strings.TrimRight(seg, " \t\r\n")
	for _, sup := range suppressions {
		if strings.HasSuffix(seg, sup) {
			return true
		}
	}
	return false
}

// segment splits text into sentences, trimmed of surrounding whitespace.
func segment(text string) []string {
	var sentences []string
	prefix := ""
	last := 0
	for _, loc := range sentenceBreak.FindAllStringIndex(text, -1) {
		seg := text[last:loc[1]]
		last = loc[1]
		if suppressed(seg) {
			prefix += seg
			continue
		}
		sentences = append(sentences, prefix+seg)
		prefix = ""
	}
	if last < len(text) {
		sentences = append(sentences, prefix+text[last:])
		prefix = ""
	}
	if prefix != "" {
		sentences = append(sentences, prefix)
	}
	for i := range sentences {
		sentences[i] = strings.TrimSpace(sentences[i])
	}
	return sentences
}
