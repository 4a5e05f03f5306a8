package browsertest

import "github.com/vunguyen00/Netflix/pkg/config"

// Layout names the URLs and selectors of the target site so scripts can be
// built for the common account behaviours.
type Layout struct {
	PlanURL    string
	LockURL    string
	SuccessURL string
	LoginURL   string
	Create     string
	Edit       string
	Confirm    string
	Input      string
}

// LayoutFor derives a layout from target configuration
func LayoutFor(tc *config.TargetConfig) Layout {
	return Layout{
		PlanURL:    tc.PlanURL(),
		LockURL:    tc.LockURL(),
		SuccessURL: tc.LockURL() + "/pinentry",
		LoginURL:   tc.BaseURL + "/login",
		Create:     tc.CreateLockSelector,
		Edit:       tc.EditLockSelector,
		Confirm:    tc.ConfirmSelector,
		Input:      tc.PasswordInputSelector,
	}
}

// DefaultLayout is the layout of the default target configuration
func DefaultLayout() Layout {
	return LayoutFor(config.NewTargetConfig())
}

// Dead is a session the site redirects to the login page
func (l Layout) Dead() *Script {
	return &Script{Routes: map[string]Page{
		l.PlanURL: {URL: l.LoginURL},
		l.LockURL: {URL: l.LoginURL},
	}}
}

// SessionOnly keeps a live session but never offers the lock wizard
func (l Layout) SessionOnly() *Script {
	return &Script{Routes: map[string]Page{
		l.PlanURL: {URL: l.PlanURL},
		l.LockURL: {URL: l.LockURL},
	}}
}

// Wizard walks the full lock flow and accepts password
func (l Layout) Wizard(password string) *Script {
	return l.wizard(l.Create, password)
}

// EditWizard is Wizard for an account whose profile lock already exists
func (l Layout) EditWizard(password string) *Script {
	return l.wizard(l.Edit, password)
}

func (l Layout) wizard(button, password string) *Script {
	return &Script{
		Routes: map[string]Page{
			l.PlanURL: {URL: l.PlanURL},
			l.LockURL: {URL: l.LockURL, Visible: []string{button}},
		},
		Clicks: map[string]Page{
			button:    {URL: l.LockURL, Visible: []string{l.Confirm}},
			l.Confirm: {URL: l.LockURL, Visible: []string{l.Input}},
		},
		Password:  password,
		Submitted: Page{URL: l.SuccessURL},
	}
}

// Shortcut jumps straight to the success URL after the first click
func (l Layout) Shortcut() *Script {
	return &Script{
		Routes: map[string]Page{
			l.PlanURL: {URL: l.PlanURL},
			l.LockURL: {URL: l.LockURL, Visible: []string{l.Create}},
		},
		Clicks: map[string]Page{
			l.Create: {URL: l.SuccessURL},
		},
	}
}

// SkipsPassword accepts the confirm click without asking for the password
func (l Layout) SkipsPassword() *Script {
	return &Script{
		Routes: map[string]Page{
			l.PlanURL: {URL: l.PlanURL},
			l.LockURL: {URL: l.LockURL, Visible: []string{l.Create}},
		},
		Clicks: map[string]Page{
			l.Create:  {URL: l.LockURL, Visible: []string{l.Confirm}},
			l.Confirm: {URL: l.SuccessURL},
		},
	}
}

// Unlocked lands on the success URL as soon as the lock page opens
func (l Layout) Unlocked() *Script {
	return &Script{Routes: map[string]Page{
		l.PlanURL: {URL: l.PlanURL},
		l.LockURL: {URL: l.SuccessURL},
	}}
}
