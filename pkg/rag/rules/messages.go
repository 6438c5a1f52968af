package rules

// Canned replies for turns that never reach retrieval. These are total:
// a matched rule always produces a reply.
const (
	ReplyCourtesy = "You're welcome 🙂 Feel free to ask anything about CORtracker."

	ReplyIdentity = "I'm CORtracker's virtual assistant, here to help you with information about the company, its services, and employee-related queries."

	ReplyOutOfScope = "I can help with information related to CORtracker and its services. For general knowledge, please use a general AI assistant."

	ReplyGreeting = "Hi 👋 How can I help you today?"

	ReplyAskEmployeeID = "Please provide your employee ID."

	ReplyInvalidEmployeeID = "Please enter a valid numeric employee ID."

	ReplyFounder = "CORtracker's founders are not explicitly listed on the official website. However, the company leadership includes experienced professionals driving its enterprise software and digital transformation initiatives."

	ReplyHeadcount = "CORtracker employs over 100 professionals across different regions, supporting clients worldwide with enterprise software and consulting services."
)

var (
	politeAcks        = []string{"thank you", "thanks", "ok", "okay", "fine", "cool"}
	identityQuestions = []string{"who are you", "what is your name"}
	outOfScopeTerms   = []string{"prime minister", "president", "weather", "news"}
	greetings         = []string{"hi", "hello", "hey"}
)

// MenuButtons are the employee-flow options, in display casing. Matching
// against user input is case-insensitive.
var MenuButtons = []string{"Employee Dashboard", "Working Days", "Salary", "Position"}
