package entities

// WelcomePolicy decides when the welcome overlay is shown.
type WelcomePolicy string

const (
	// WelcomeSticky hides the overlay for good once it is dismissed or results are first shown.
	WelcomeSticky WelcomePolicy = "sticky"
	// WelcomeReshowOnEmpty shows the overlay whenever the result set is empty;
	// a dismissal lasts until results next arrive.
	WelcomeReshowOnEmpty WelcomePolicy = "reshow_on_empty"
)

const (
	WelcomeTitle   = "Welcome to LocalPulse"
	WelcomeMessage = "Search for events and businesses, or pick a city to discover interesting places nearby."
)

// WelcomeState tracks the overlay independently of the result count.
type WelcomeState struct {
	Dismissed    bool
	ResultsShown bool
}

// Dismiss records an explicit close by the user.
func (w *WelcomeState) Dismiss() {
	w.Dismissed = true
}

// ObserveResults records that a new result set of the given size is displayed.
func (w *WelcomeState) ObserveResults(count int, policy WelcomePolicy) {
	if count == 0 {
		return
	}
	w.ResultsShown = true
	if policy == WelcomeReshowOnEmpty {
		w.Dismissed = false
	}
}

// Visible reports whether the overlay should be drawn.
func (w WelcomeState) Visible(policy WelcomePolicy, resultCount int) bool {
	if w.Dismissed || resultCount > 0 {
		return false
	}
	if policy == WelcomeReshowOnEmpty {
		return true
	}
	return !w.ResultsShown
}

// WelcomeView is the overlay as sent to clients.
type WelcomeView struct {
	Visible bool   `json:"visible"`
	Title   string `json:"title,omitempty"`
	Message string `json:"message,omitempty"`
}

// View renders the overlay for the given policy and result count.
func (w WelcomeState) View(policy WelcomePolicy, resultCount int) WelcomeView {
	if !w.Visible(policy, resultCount) {
		return WelcomeView{}
	}
	return WelcomeView{Visible: true, Title: WelcomeTitle, Message: WelcomeMessage}
}
