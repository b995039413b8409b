// Package chat implements the conversational intake state machine behind the
// portal's chat widget. Transitions live in an explicit handler table; an
// input a state has no handler for falls through to the apology-and-reset
// path rather than an unguarded branch.
package chat

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/civicdesk/complaint-service/internal/domain"
	"github.com/civicdesk/complaint-service/pkg/util"
)

// State enumerates the conversation states.
type State string

const (
	StateGreeting             State = "greeting"
	StateCollectingCategory   State = "collecting_category"
	StateCollectingDesc       State = "collecting_description"
	StateCollectingLocation   State = "collecting_location"
	StateCollectingContact    State = "collecting_contact"
	StateConfirmingSubmission State = "confirming_submission"
	StateSubmitting           State = "submitting"
	StateSubmittedSuccess     State = "submitted_success"
	StateTrackingPrompt       State = "tracking_prompt"
	StateTrackingLoading      State = "tracking_loading"
)

// Action enumerates the button-driven triggers.
type Action string

const (
	ActionNewComplaint Action = "new_complaint"
	ActionTrack        Action = "track"
	ActionConfirm      Action = "confirm"
	ActionCancel       Action = "cancel"
)

// Sender tags a transcript message.
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one transcript entry. Actions, when present, render as buttons;
// they are cleared on the first press so rapid clicks cannot double-trigger.
type Message struct {
	Sender  Sender   `json:"sender"`
	Text    string   `json:"text"`
	Actions []Action `json:"actions,omitempty"`
}

// Draft accumulates the complaint fields collected turn by turn.
type Draft struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Contact     string `json:"contact"`
}

// Gateway is what the intake flow needs from the complaint backend.
type Gateway interface {
	SubmitComplaint(ctx context.Context, draft Draft, language string) (ticketID string, err error)
	ComplaintStatus(ctx context.Context, ticketID string) (domain.ComplaintStatus, bool)
}

var contactPattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// Session is one open chat widget instance. All methods serialize on the
// session lock; the conversation is sequential by design, with at most one
// submission or lookup in flight.
type Session struct {
	ID       string
	Language string

	mu         sync.Mutex
	state      State
	draft      Draft
	messages   []Message
	loading    bool
	closed     bool
	resetTimer *time.Timer
	resetGen   int
	lastActive time.Time

	gateway    Gateway
	resetDelay time.Duration
}

// NewSession opens a session in the greeting state.
func NewSession(gateway Gateway, language string, resetDelay time.Duration) *Session {
	s := &Session{
		ID:         uuid.NewString(),
		Language:   language,
		gateway:    gateway,
		resetDelay: resetDelay,
		lastActive: time.Now(),
	}
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
	return s
}

// State returns the current conversation state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Draft returns a copy of the accumulated draft.
func (s *Session) Draft() Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// Transcript returns a copy of the message log.
func (s *Session) Transcript() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Loading reports whether a submission or lookup is in flight; the widget
// disables free-text input while true.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastActive returns the time of the last citizen interaction.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// inputHandlers is the free-text transition table. States absent from the
// table take the didn't-understand path.
var inputHandlers = map[State]func(*Session, context.Context, string){
	StateCollectingCategory: (*Session).collectCategory,
	StateCollectingDesc:     (*Session).collectDescription,
	StateCollectingLocation: (*Session).collectLocation,
	StateCollectingContact:  (*Session).collectContact,
	StateTrackingPrompt:     (*Session).trackTicket,
}

// HandleInput advances the conversation with one free-text user turn.
func (s *Session) HandleInput(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return util.NewValidationError("message text required", nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return util.NewConflict("chat session is closed", nil)
	}
	if s.loading {
		return util.NewConflict("a request is already in flight for this session", nil)
	}
	s.lastActive = time.Now()
	s.cancelResetLocked()
	s.appendMessage(SenderUser, text, nil)

	handler, ok := inputHandlers[s.state]
	if !ok {
		s.appendMessage(SenderBot, msgDidNotUnderstand, nil)
		s.scheduleResetLocked()
		return nil
	}
	handler(s, ctx, text)
	return nil
}

// HandleAction advances the conversation with a button press. Buttons are
// stripped from the transcript before dispatch, so a second press of a stale
// button is rejected instead of re-triggering.
func (s *Session) HandleAction(ctx context.Context, action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return util.NewConflict("chat session is closed", nil)
	}
	if s.loading {
		return util.NewConflict("a request is already in flight for this session", nil)
	}
	s.lastActive = time.Now()

	valid := false
	switch s.state {
	case StateGreeting:
		valid = action == ActionNewComplaint || action == ActionTrack
	case StateConfirmingSubmission:
		valid = action == ActionConfirm || action == ActionCancel
	}
	if !valid {
		return util.NewConflict(fmt.Sprintf("action %q is not available in state %q", action, s.state), nil)
	}

	s.cancelResetLocked()
	s.clearActionsLocked()
	s.appendMessage(SenderUser, actionLabels[action], nil)

	switch action {
	case ActionNewComplaint:
		s.appendMessage(SenderBot, msgAskCategory, nil)
		s.state = StateCollectingCategory
	case ActionTrack:
		s.appendMessage(SenderBot, msgAskTrackID, nil)
		s.state = StateTrackingPrompt
	case ActionCancel:
		s.resetLocked()
	case ActionConfirm:
		s.submitLocked(ctx)
	}
	return nil
}

// Close tears the session down and cancels any pending auto-reset so a stale
// timer cannot fire into a recycled widget.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.cancelResetLocked()
}

// Reset discards the draft and returns to greeting immediately.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.resetLocked()
}

func (s *Session) collectCategory(ctx context.Context, text string) {
	s.draft.Category = text
	s.state = StateCollectingDesc
	s.appendMessage(SenderBot, msgAskDescription, nil)
}

func (s *Session) collectDescription(ctx context.Context, text string) {
	s.draft.Description = text
	s.state = StateCollectingLocation
	s.appendMessage(SenderBot, msgAskLocation, nil)
}

func (s *Session) collectLocation(ctx context.Context, text string) {
	s.draft.Location = text
	s.state = StateCollectingContact
	s.appendMessage(SenderBot, msgAskContact, nil)
}

func (s *Session) collectContact(ctx context.Context, text string) {
	if !contactPattern.MatchString(text) {
		// re-prompt, state unchanged
		s.appendMessage(SenderBot, msgInvalidMobile, nil)
		return
	}
	s.draft.Contact = text
	s.state = StateConfirmingSubmission
	summary := fmt.Sprintf("Category: %s\nDescription: %s\nLocation: %s\nContact: %s",
		s.draft.Category, s.draft.Description, s.draft.Location, s.draft.Contact)
	s.appendMessage(SenderBot, msgConfirmPrefix+"\n\n"+summary, []Action{ActionConfirm, ActionCancel})
}

func (s *Session) trackTicket(ctx context.Context, ticketID string) {
	s.state = StateTrackingLoading
	s.loading = true
	status, found := s.gateway.ComplaintStatus(ctx, ticketID)
	s.loading = false
	if found {
		s.appendMessage(SenderBot, fmt.Sprintf("%s %s.", msgStatusIs, status), nil)
	} else {
		s.appendMessage(SenderBot, msgNotFound, nil)
	}
	s.scheduleResetLocked()
}

// submitLocked performs the single submission call for this confirmation.
func (s *Session) submitLocked(ctx context.Context) {
	s.state = StateSubmitting
	s.loading = true
	s.appendMessage(SenderBot, msgSubmitting, nil)

	ticketID, err := s.gateway.SubmitComplaint(ctx, s.draft, s.Language)
	s.loading = false
	if err != nil {
		// Failure returns to greeting immediately; the timer only restores
		// the welcome message and its buttons after the apology is read.
		s.appendMessage(SenderBot, msgSubmitFailed, nil)
		s.draft = Draft{}
		s.state = StateGreeting
		s.scheduleResetLocked()
		return
	}
	s.appendMessage(SenderBot, fmt.Sprintf("%s %s", msgSubmitSuccess, ticketID), nil)
	s.state = StateSubmittedSuccess
	s.scheduleResetLocked()
}

func (s *Session) appendMessage(sender Sender, text string, actions []Action) {
	s.messages = append(s.messages, Message{Sender: sender, Text: text, Actions: actions})
}

func (s *Session) clearActionsLocked() {
	for i := range s.messages {
		s.messages[i].Actions = nil
	}
}

func (s *Session) resetLocked() {
	s.cancelResetLocked()
	s.state = StateGreeting
	s.draft = Draft{}
	s.loading = false
	s.messages = []Message{{
		Sender:  SenderBot,
		Text:    msgWelcome,
		Actions: []Action{ActionNewComplaint, ActionTrack},
	}}
}

// scheduleResetLocked arms the auto-return-to-greeting timer. The generation
// counter guards against a fired timer that lost the lock race to a manual
// reset or close.
func (s *Session) scheduleResetLocked() {
	s.cancelResetLocked()
	s.resetGen++
	gen := s.resetGen
	s.resetTimer = time.AfterFunc(s.resetDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.closed || gen != s.resetGen {
			return
		}
		s.resetLocked()
	})
}

func (s *Session) cancelResetLocked() {
	if s.resetTimer != nil {
		s.resetTimer.Stop()
		s.resetTimer = nil
	}
	s.resetGen++
}
