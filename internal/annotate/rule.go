package annotate

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

//go:embed data/given_names.txt
var givenNames []byte

// Words with inner apostrophes or hyphens, numbers, or single symbols.
var tokenPattern = regexp.MustCompile(`\pL[\pL\pM]*(?:['’\-][\pL\pM]+)*|\pN+(?:[.,]\pN+)*|[^\s\pL\pN]`)

// RuleAnnotator annotates English prose with word lists, suffix rules and a
// given-name gazetteer. It is safe for concurrent use.
type RuleAnnotator struct {
	names  map[string]struct{}
	common map[string]struct{}
}

var _ Annotator = (*RuleAnnotator)(nil)

// Option configures a RuleAnnotator.
type Option func(*RuleAnnotator)

// WithNames extends the built-in given-name gazetteer.
func WithNames(names ...string) Option {
	return func(a *RuleAnnotator) {
		for _, n := range names {
			if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
				a.names[n] = struct{}{}
			}
		}
	}
}

// WithCommonWords registers words that are never names on their own, such
// as lexicon terms. Phrases are split into words. A capitalised run made
// only of common words is not an entity unless a title introduces it or the
// gazetteer knows it.
func WithCommonWords(words ...string) Option {
	return func(a *RuleAnnotator) {
		for _, phrase := range words {
			for _, w := range strings.Fields(strings.ToLower(phrase)) {
				a.common[w] = struct{}{}
			}
		}
	}
}

// NewRuleAnnotator creates an annotator with the built-in given-name list.
func NewRuleAnnotator(opts ...Option) *RuleAnnotator {
	a := &RuleAnnotator{
		names:  make(map[string]struct{}),
		common: make(map[string]struct{}),
	}
	scanner := bufio.NewScanner(bytes.NewReader(givenNames))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		a.names[strings.ToLower(line)] = struct{}{}
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Annotate tokenizes, segments, tags and recognizes entities in text.
func (a *RuleAnnotator) Annotate(ctx context.Context, text string, hints Hints) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := &Document{Text: text}
	doc.Tokens = tokenize(text)
	doc.Sentences = segment(text, doc.Tokens)
	for i := range doc.Tokens {
		doc.Tokens[i].Tag = tag(doc.Tokens, i)
	}
	for i := range doc.Tokens {
		doc.Tokens[i].Dep = dep(doc.Tokens, i)
	}
	doc.Entities = a.recognize(doc, hints)
	return doc, nil
}

func tokenize(text string) []Token {
	locs := tokenPattern.FindAllStringIndex(text, -1)
	tokens := make([]Token, 0, len(locs))
	for _, loc := range locs {
		word := text[loc[0]:loc[1]]
		// Split the possessive clitic: "Alex's" -> "Alex", "'s".
		if cut := clitic(word); cut > 0 {
			tokens = append(tokens,
				Token{Text: word[:cut], Offset: loc[0]},
				Token{Text: word[cut:], Offset: loc[0] + cut})
			continue
		}
		tokens = append(tokens, Token{Text: word, Offset: loc[0]})
	}
	return tokens
}

func clitic(word string) int {
	lower := strings.ToLower(word)
	for _, suffix := range []string{"'s", "’s"} {
		if strings.HasSuffix(lower, suffix) && len(word) > len(suffix) {
			return len(word) - len(suffix)
		}
	}
	return 0
}

// segment assigns sentence ids to tokens and returns the sentence spans.
func segment(text string, tokens []Token) []Sentence {
	var sentences []Sentence
	first := 0
	for i := range tokens {
		if i == len(tokens)-1 || !endsSentence(text, tokens, i) {
			continue
		}
		sentences = closeSentence(sentences, tokens, first, i)
		first = i + 1
	}
	if first < len(tokens) {
		sentences = closeSentence(sentences, tokens, first, len(tokens)-1)
	}
	return sentences
}

func closeSentence(sentences []Sentence, tokens []Token, first, last int) []Sentence {
	id := len(sentences)
	for j := first; j <= last; j++ {
		tokens[j].Sentence = id
	}
	return append(sentences, Sentence{Start: tokens[first].Offset, End: tokens[last].End()})
}

func endsSentence(text string, tokens []Token, i int) bool {
	tok := tokens[i]
	gap := text[tok.End():tokens[i+1].Offset]
	if strings.Count(gap, "\n") >= 2 {
		return true
	}
	switch {
	case isTerminal(tok.Text):
	case isCloser(tok.Text) && i > 0 && isTerminal(tokens[i-1].Text) && tokens[i-1].End() == tok.Offset:
	default:
		return false
	}
	if gap == "" {
		return false
	}
	return !(tok.Text == "." && isAbbreviation(tokens, i))
}

func isTerminal(s string) bool { return s == "." || s == "!" || s == "?" }

func isCloser(s string) bool {
	switch s {
	case `"`, "'", "”", "’", ")", "]":
		return true
	}
	return false
}

// isAbbreviation reports whether the period at i closes an abbreviation
// such as "Mr.", an initial such as "J." or the tail of "e.g.".
func isAbbreviation(tokens []Token, i int) bool {
	if i == 0 || tokens[i-1].End() != tokens[i].Offset {
		return false
	}
	prev := tokens[i-1]
	w := prev.Lower()
	if in(abbreviations, w) {
		return true
	}
	if utf8.RuneCountInString(w) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(prev.Text)
	if unicode.IsUpper(r) && prev.Text != "I" {
		return true
	}
	return i >= 2 && tokens[i-2].Text == "." && tokens[i-2].End() == prev.Offset
}

// tag assigns a Penn-style part-of-speech tag.
func tag(tokens []Token, i int) string {
	tok := tokens[i]
	w := tok.Lower()
	r, _ := utf8.DecodeRuneInString(tok.Text)
	switch {
	case isTerminal(tok.Text):
		return "."
	case tok.Text == ",":
		return ","
	case unicode.IsDigit(r):
		return "CD"
	case !unicode.IsLetter(r):
		return ":"
	case w == "his" || w == "her":
		if determinesNoun(tokens, i) {
			return "PRP$"
		}
		return "PRP"
	case in(personalPronouns, w):
		return "PRP"
	case in(possessiveDeterminers, w):
		return "PRP$"
	case in(determiners, w):
		return "DT"
	case in(prepositions, w):
		return "IN"
	case in(conjunctions, w):
		return "CC"
	case in(modals, w):
		return "MD"
	case in(auxiliaries, w):
		return "VB"
	case unicode.IsUpper(r):
		return "NNP"
	case strings.HasSuffix(w, "ing"):
		return "VBG"
	case strings.HasSuffix(w, "ed"):
		return "VBD"
	case strings.HasSuffix(w, "ly"):
		return "RB"
	}
	return "NN"
}

// determinesNoun reports whether the word at i is followed, in the same
// sentence, by a content word it can determine.
func determinesNoun(tokens []Token, i int) bool {
	if i+1 >= len(tokens) || tokens[i+1].Sentence != tokens[i].Sentence {
		return false
	}
	next := tokens[i+1]
	r, _ := utf8.DecodeRuneInString(next.Text)
	if !unicode.IsLetter(r) {
		return false
	}
	w := next.Lower()
	return !isFunctionWord(w) && !in(nonNominal, w)
}

// dep assigns a dependency label. Only pronouns get grammatical roles;
// other words are labelled "dep" and symbols "punct".
func dep(tokens []Token, i int) string {
	tok := tokens[i]
	w := tok.Lower()
	switch tok.Tag {
	case "PRP$":
		return "poss"
	case "PRP":
	case ".", ",", ":":
		return "punct"
	default:
		return "dep"
	}
	governed := i > 0 && tokens[i-1].Sentence == tok.Sentence && tokens[i-1].Tag == "IN"
	switch {
	case in(subjectPronouns, w) && !governed:
		return "nsubj"
	case in(standalonePossessives, w):
		return "attr"
	case governed:
		return "pobj"
	}
	return "dobj"
}

// recognize finds runs of capitalised words within a sentence and labels
// them. A run introduced by a title, or found mid-sentence, is a person. A
// sentence-initial run is a person when its first word is a known name;
// otherwise its first word is taken as an ordinary capitalised word and
// the remainder, if any, is the person. An untitled run of common words
// that no name list knows is dropped.
func (a *RuleAnnotator) recognize(doc *Document, hints Hints) []Entity {
	known := make(map[string]struct{}, len(hints.KnownNames))
	for _, n := range hints.KnownNames {
		if n = strings.ToLower(strings.TrimSpace(n)); n != "" {
			known[n] = struct{}{}
		}
	}
	isKnown := func(name string) bool {
		name = strings.ToLower(name)
		return in(a.names, name) || in(known, name)
	}

	tokens := doc.Tokens
	var entities []Entity
	for i := 0; i < len(tokens); i++ {
		first, titled := skipTitle(tokens, i)
		last := first - 1
		for k := first; k < len(tokens) && isNameWord(tokens[k]) && tokens[k].Sentence == tokens[i].Sentence; k++ {
			if k > first && !adjacent(doc.Text, tokens[k-1], tokens[k]) {
				break
			}
			last = k
		}
		if last < first {
			continue
		}
		i = last

		label := LabelPerson
		if in(orgSuffixes, tokens[last].Lower()) && last > first {
			label = LabelOrg
		} else if !titled && sentenceInitial(tokens, first) {
			runText := doc.Text[tokens[first].Offset:tokens[last].End()]
			if !isKnown(tokens[first].Text) && !isKnown(runText) {
				first++
				if first > last {
					continue
				}
			}
		}
		if !titled && label == LabelPerson && a.onlyCommon(tokens[first:last+1], isKnown) {
			continue
		}
		start, end := tokens[first].Offset, tokens[last].End()
		entities = append(entities, Entity{
			Label: label,
			Start: start,
			End:   end,
			Text:  doc.Text[start:end],
		})
	}
	return entities
}

func (a *RuleAnnotator) onlyCommon(run []Token, isKnown func(string) bool) bool {
	for _, t := range run {
		if !in(a.common, t.Lower()) || isKnown(t.Text) {
			return false
		}
	}
	return true
}

// skipTitle returns the index of the first word after a capitalised title
// at i (and its period), or i when there is none.
func skipTitle(tokens []Token, i int) (int, bool) {
	tok := tokens[i]
	r, _ := utf8.DecodeRuneInString(tok.Text)
	if !unicode.IsUpper(r) || !in(titles, tok.Lower()) {
		return i, false
	}
	j := i + 1
	if j < len(tokens) && tokens[j].Text == "." && tokens[j].Offset == tok.End() {
		j++
	}
	if j >= len(tokens) || tokens[j].Sentence != tok.Sentence || !isNameWord(tokens[j]) {
		return i, false
	}
	return j, true
}

func isNameWord(t Token) bool {
	w := t.Lower()
	return t.Tag == "NNP" && !in(calendarWords, w) && !in(titles, w) && w != "dear"
}

func sentenceInitial(tokens []Token, i int) bool {
	if i == 0 || tokens[i-1].Sentence != tokens[i].Sentence {
		return true
	}
	// Opening quotes and brackets do not start a new clause position.
	for j := i - 1; j >= 0 && tokens[j].Sentence == tokens[i].Sentence; j-- {
		if tokens[j].Tag != ":" {
			return false
		}
	}
	return true
}

func adjacent(text string, a, b Token) bool {
	gap := text[a.End():b.Offset]
	return gap != "" && strings.TrimLeft(gap, " \t") == ""
}
