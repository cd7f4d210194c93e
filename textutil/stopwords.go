package textutil

// stopwords is the combined Portuguese + English stopword set. The
// indexer and the search stage both filter through this exact set;
// changing it invalidates every persisted BM25-derived score, so treat
// additions as an index-rebuilding event.
var stopwords = map[string]struct{}{}

func init() {
	for _, w := range stopwordList {
		stopwords[w] = struct{}{}
	}
}

// IsStopword reports whether the (already lowercased) token belongs to
// the combined PT+EN stopword set.
func IsStopword(token string) bool {
	_, ok := stopwords[token]
	return ok
}

var stopwordList = []string{
	// Portuguese
	"a", "ao", "aos", "aquela", "aquelas", "aquele", "aqueles", "aquilo",
	"as", "até", "com", "como", "da", "das", "de", "dela", "delas",
	"dele", "deles", "depois", "do", "dos", "e", "ela", "elas", "ele",
	"eles", "em", "entre", "era", "eram", "essa", "essas", "esse",
	"esses", "esta", "estas", "este", "estes", "eu", "foi", "foram",
	"há", "isso", "isto", "já", "lhe", "lhes", "mais", "mas", "me",
	"mesmo", "meu", "meus", "minha", "minhas", "muito", "na", "nas",
	"não", "nem", "no", "nos", "nós", "nossa", "nossas", "nosso",
	"nossos", "num", "numa", "o", "os", "ou", "para", "pela", "pelas",
	"pelo", "pelos", "por", "qual", "quando", "que", "quem", "são",
	"se", "seja", "sem", "ser", "seu", "seus", "só", "sua", "suas",
	"também", "te", "tem", "tém", "teu", "teus", "tu", "tua", "tuas",
	"um", "uma", "você", "vocês", "vos",
	// English
	"about", "after", "all", "also", "an", "and", "any", "are", "as",
	"at", "be", "because", "been", "before", "being", "between", "both",
	"but", "by", "can", "could", "did", "does", "doing", "down",
	"during", "each", "few", "for", "from", "further", "had", "has",
	"have", "having", "he", "her", "here", "hers", "him", "his", "how",
	"if", "in", "into", "is", "it", "its", "itself", "just", "more",
	"most", "my", "myself", "of", "off", "on", "once", "only", "or",
	"other", "our", "ours", "out", "over", "own", "same", "she",
	"should", "so", "some", "such", "than", "that", "the", "their",
	"theirs", "them", "then", "there", "these", "they", "this", "those",
	"through", "to", "too", "under", "until", "up", "very", "was", "we",
	"were", "what", "when", "where", "which", "while", "who", "whom",
	"why", "will", "with", "would", "you", "your", "yours",
}
