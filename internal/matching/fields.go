package matching

// Role selects which question-ID table applies when building a profile.
type Role string

const (
	RoleUser      Role = "user"
	RoleTherapist Role = "therapist"
)

// Field names one of the six profile dimensions.
type Field string

const (
	FieldIssues        Field = "issues"
	FieldEmotionStyle  Field = "emotion_style"
	FieldDepth         Field = "depth"
	FieldPacing        Field = "pacing"
	FieldBoundaries    Field = "boundaries"
	FieldCommunication Field = "communication"
)

// Fields lists the profile fields in scoring order.
var Fields = []Field{
	FieldIssues,
	FieldEmotionStyle,
	FieldDepth,
	FieldPacing,
	FieldBoundaries,
	FieldCommunication,
}

// fieldQuestions is the static assignment of survey question IDs to profile
// fields, per role. This is configuration, not derived from question
// metadata: the survey numbering is owned by the intake collaborator and
// these are the IDs its canonical question set uses. A question may feed
// more than one field (267 and 301 feed both emotion style and depth).
var fieldQuestions = map[Role]map[Field][]int{
	RoleUser: {
		FieldIssues:        {260},
		FieldEmotionStyle:  {265, 266, 267, 268, 269, 270, 287},
		FieldDepth:         {267, 280},
		FieldPacing:        {275},
		FieldBoundaries:    {278},
		FieldCommunication: {271, 272, 273, 274},
	},
	RoleTherapist: {
		FieldIssues:        {288},
		FieldEmotionStyle:  {289, 290, 291, 292, 293, 294, 295, 301},
		FieldDepth:         {292, 301},
		FieldPacing:        {300},
		FieldBoundaries:    {298},
		FieldCommunication: {296, 297},
	},
}

// QuestionsForField returns the question IDs assigned to a field for a role.
// Unknown role/field combinations return nil, which builds an empty field.
func QuestionsForField(role Role, field Field) []int {
	return fieldQuestions[role][field]
}
