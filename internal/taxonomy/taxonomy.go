// Package taxonomy holds the canonical category tables the matching engine
// scores against. The tables are fixed at compile time and never mutated;
// category order is definition order and determines vector slot order, so
// reordering entries changes vector layout (not scores, since both sides of
// a comparison share the layout).
package taxonomy

// Category maps one canonical label to the keyword surface forms that count
// as a hit for it. Keyword lists include inflected forms explicitly because
// matching is fuzzy containment, not stemming.
type Category struct {
	Name     string
	Keywords []string
}

// Issues are the clinical presenting-issue categories (presence-scored).
var Issues = []Category{
	{"anxiety", []string{"anxiety", "panic", "panic attack", "panic attacks", "worry", "overthinking", "gad", "fear", "racing thoughts"}},
	{"depression", []string{"depression", "depressed", "sad", "sadness", "low mood", "hopeless", "empty", "numb"}},
	{"trauma", []string{"trauma", "ptsd", "abuse", "flashback", "flashbacks", "violence", "complex trauma", "childhood trauma"}},
	{"grief", []string{"loss", "grief", "bereavement", "breakup", "death", "mourning"}},
	{"emotion_regulation", []string{"anger", "irritability", "mood swing", "mood swings", "emotion regulation", "overwhelmed"}},
	{"relationships", []string{"relationship", "relationships", "family", "marriage", "conflict", "attachment", "trust issues"}},
	{"neurodiversity", []string{"adhd", "autism", "aspergers", "neurodiverse"}},
}

// Emotional are the emotional-style need axes (count-scored).
var Emotional = []Category{
	{"validation", []string{"being heard", "emotional comfort", "validate", "validation", "feel seen", "feel understood", "empathy", "safe space"}},
	{"tools", []string{"clear guidance", "practical strategies", "coping skills", "tools", "skill", "action plan", "cbt", "technique", "strategies"}},
	{"insight", []string{"exploring patterns", "self awareness", "reflection", "insight", "explore deeper meaning", "psychodynamic", "patterns"}},
	{"challenge", []string{"gentle challenge", "challenge", "push me", "accountability", "challenge beliefs"}},
	{"soothing", []string{"comfort", "warmth", "soothing", "supportive", "compassion", "hold space", "stay with feelings"}},
	{"structure", []string{"structured", "organized", "framework", "step by step", "roadmap", "routine", "schedule"}},
}

// Communication are the communication-style axes (count-scored).
var Communication = []Category{
	{"gentle", []string{"gentle", "soft", "warm", "reassuring", "compassionate", "calm tone"}},
	{"direct", []string{"direct", "straightforward", "honest", "clear", "to the point", "no-nonsense"}},
	{"humor", []string{"humor", "lightness", "light-hearted", "playful", "funny"}},
	{"guidance", []string{"guidance", "homework", "assignments", "tasks", "structured guidance", "actionable"}},
}

// OrdinalEntry maps one keyword to a position on a 0–1 scale. Scales are
// scanned in order and the first fuzzy hit wins.
type OrdinalEntry struct {
	Keyword string
	Value   float64
}

// DepthScale maps depth-orientation answers to a scalar (surface work 0 → deep work 1).
var DepthScale = []OrdinalEntry{
	{"not much", 0.1},
	{"a bit", 0.4},
	{"deep", 1.0},
}

// PacingScale maps pacing answers to a scalar (slow 0 → fast 1).
var PacingScale = []OrdinalEntry{
	{"slow", 0.2},
	{"balanced", 0.5},
	{"fast", 0.9},
}

// BoundaryScale maps boundary-preference answers to a scalar
// (needs space 0 → attaches closely 1).
var BoundaryScale = []OrdinalEntry{
	{"i get attached", 1.0},
	{"balanced", 0.5},
	{"i prefer space", 0.2},
}

// Names returns the category labels of a table in definition order.
func Names(cats []Category) []string {
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.Name
	}
	return names
}

// DefaultVocabulary returns the built-in option vocabulary for the six core
// survey categories, used when the live question data provides no options.
func DefaultVocabulary() map[string][]string {
	vocab := map[string][]string{
		"issues":              Names(Issues),
		"emotional_style":     Names(Emotional),
		"communication_style": Names(Communication),
	}
	for cat, scale := range map[string][]OrdinalEntry{
		"depth":      DepthScale,
		"pacing":     PacingScale,
		"boundaries": BoundaryScale,
	} {
		keys := make([]string, len(scale))
		for i, e := range scale {
			keys[i] = e.Keyword
		}
		vocab[cat] = keys
	}
	return vocab
}
