package chat

// Bot-turn copy for the intake flow. The widget localizes on the client; the
// service speaks the default locale and passes the citizen's language tag
// through to submission untouched.
const (
	msgWelcome          = "Namaste! I can help you file a new complaint or track an existing one."
	msgAskCategory      = "Sure! What category does your complaint fall under (e.g., Waste Management, Road Maintenance)?"
	msgAskDescription   = "Got it. Please describe the issue briefly."
	msgAskLocation      = "Where is the issue located? Please share a landmark or address."
	msgAskContact       = "Please share your 10-digit mobile number so we can send you status updates."
	msgInvalidMobile    = "That doesn't look like a valid mobile number. Please enter a 10-digit number starting with 6-9."
	msgConfirmPrefix    = "Please confirm the details below before I submit your complaint."
	msgSubmitting       = "Submitting your complaint..."
	msgSubmitSuccess    = "Your complaint has been registered! Your ticket ID is"
	msgSubmitFailed     = "Sorry, there was an error submitting your complaint. Please try again later."
	msgAskTrackID       = "Please enter your ticket ID (e.g., TKT-12345)."
	msgStatusIs         = "The current status of your complaint is:"
	msgNotFound         = "Sorry, I couldn't find a complaint with that ticket ID. Please check the ID and try again."
	msgDidNotUnderstand = "Sorry, I didn't understand that. Let's start over."
)

// Labels echoed into the transcript when the citizen presses an action button.
var actionLabels = map[Action]string{
	ActionNewComplaint: "New Complaint",
	ActionTrack:        "Track Complaint",
	ActionConfirm:      "Confirm",
	ActionCancel:       "Cancel",
}
