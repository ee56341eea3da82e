package annotate

func set(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

func in(m map[string]struct{}, w string) bool {
	_, ok := m[w]
	return ok
}

var (
	personalPronouns = set(
		"i", "me", "you", "he", "him", "she", "we", "us", "they", "them", "it",
		"hers", "theirs", "mine", "yours", "ours",
		"myself", "yourself", "yourselves", "himself", "herself", "itself",
		"ourselves", "themself", "themselves",
	)

	possessiveDeterminers = set("my", "your", "our", "their", "its")

	// Forms that head a clause when not governed by a preposition.
	subjectPronouns = set("i", "you", "he", "she", "we", "they", "it")

	standalonePossessives = set("his", "hers", "theirs", "mine", "yours", "ours")

	determiners = set(
		"the", "a", "an", "this", "that", "these", "those", "every", "each",
		"some", "any", "no", "all", "both", "either", "neither", "another",
	)

	prepositions = set(
		"of", "in", "on", "at", "to", "for", "with", "by", "from", "about",
		"into", "onto", "over", "after", "before", "under", "between",
		"through", "during", "without", "within", "against", "among",
		"toward", "towards", "upon", "across", "behind", "beyond", "near",
		"like", "than", "around", "beside", "besides", "despite", "via",
	)

	conjunctions = set("and", "or", "but", "nor", "yet", "so", "because", "although", "while", "if")

	modals = set("will", "would", "can", "could", "should", "may", "might", "must", "shall")

	auxiliaries = set(
		"is", "are", "was", "were", "be", "been", "being", "am",
		"has", "have", "had", "do", "does", "did",
	)

	// Words that may follow an object "her" or "his" without being the
	// noun they determine.
	nonNominal = set(
		"yesterday", "today", "tomorrow", "tonight", "again", "too", "now",
		"then", "there", "here", "later", "earlier", "first", "once",
		"twice", "back", "up", "down", "out", "off", "away", "not", "very",
		"well", "soon", "immediately", "anyway", "instead", "also",
	)

	abbreviations = set(
		"mr", "mrs", "ms", "mx", "dr", "prof", "st", "jr", "sr", "etc",
		"vs", "rev", "hon", "gen", "col", "capt", "lt", "sgt", "inc", "corp",
		"ltd", "co", "approx",
	)

	titles = set(
		"mr", "mrs", "ms", "mx", "miss", "dr", "prof", "professor", "sir",
		"dame", "lady", "lord", "madam", "madame", "rev", "reverend", "hon",
		"capt", "captain", "sgt", "sergeant", "lt", "lieutenant", "gen",
		"general", "col", "colonel", "chairman", "chairwoman", "chair",
		"president", "judge", "justice", "officer", "coach", "aunt", "uncle",
	)

	orgSuffixes = set("inc", "corp", "corporation", "llc", "ltd", "company", "group", "foundation", "university")

	calendarWords = set(
		"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday",
		"january", "february", "march", "april", "june", "july", "august",
		"september", "october", "november", "december",
	)
)

// isFunctionWord reports whether w belongs to a closed word class.
func isFunctionWord(w string) bool {
	return in(personalPronouns, w) || in(possessiveDeterminers, w) ||
		in(determiners, w) || in(prepositions, w) || in(conjunctions, w) ||
		in(modals, w) || in(auxiliaries, w) || w == "his" || w == "her"
}
