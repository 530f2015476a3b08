package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pw "github.com/playwright-community/playwright-go"

	"github.com/brogergvhs/r6scrape/internal/config"
	"github.com/brogergvhs/r6scrape/internal/pagescrape"
)

var ErrNoLoginFrame = errors.New("login frame not found")

const (
	jsHasLoginButton = `() => Array.from(document.getElementsByTagName("button")).some(el => el.innerText === "LOG IN")`
	jsClickLogin     = `() => Array.from(document.getElementsByTagName("button")).filter(el => el.innerText === "LOG IN")[0].click()`
	jsHasAuthButton  = `() => document.getElementsByTagName("button")["LogInButton"] !== undefined`
	jsSubmitLogin    = `({ email, password }) => {
  const inputs = document.getElementsByTagName("input");
  inputs["AuthEmail"].value = email;
  inputs["AuthPassword"].value = password;
  inputs["RememberMe"].checked = true;
  document.getElementsByTagName("button")["LogInButton"].click();
}`
	jsOpenSearch = `() => document.getElementsByClassName("search")[0].getElementsByTagName("a")[0].click()`
	jsTypeSearch = `term => {
  const field = document.getElementsByTagName("input")[0];
  field.value = term;
  field.dispatchEvent(new InputEvent("input"));
}`
)

const (
	settleDelay = 500 * time.Millisecond
	frameDelay  = time.Second
	searchDelay = 5 * time.Second
)

// Run signs in and searches for searchTerm so the stats page fires its API
// calls. The version is best effort and may be empty.
func (s *Session) Run(ctx context.Context, creds config.Credentials, searchTerm string) (Result, error) {
	var res Result

	if _, err := s.page.Goto(s.opts.StartURL); err != nil {
		return res, fmt.Errorf("goto %s: %w", s.opts.StartURL, err)
	}
	s.screenshot("startup.png")

	if err := sleep(ctx, settleDelay); err != nil {
		return res, err
	}

	if err := WaitFor(ctx, evalBool(s.page.Evaluate, jsHasLoginButton), s.opts.WaitTimeout); err != nil {
		return res, fmt.Errorf("waiting for LOG IN button: %w", err)
	}

	landing, err := s.scrape(s.page.Content, s.page.URL())
	if err != nil {
		s.log.Debugf("scrape landing page: %v", err)
	} else {
		res.Pages = append(res.Pages, landing)
		res.Version = landing.Version
	}
	if res.Version != "" {
		s.log.Infof("Identified version as %s", res.Version)
	}

	if _, err := s.page.Evaluate(jsClickLogin); err != nil {
		return res, fmt.Errorf("open login: %w", err)
	}
	s.screenshot("login_popup.png")

	var frame pw.Frame
	err = WaitFor(ctx, func(ctx context.Context) (bool, error) {
		frame = s.loginFrame()
		if frame == nil {
			return false, ErrNoLoginFrame
		}
		return evalBool(frame.Evaluate, jsHasAuthButton)(ctx)
	}, s.opts.WaitTimeout)
	if err != nil {
		return res, fmt.Errorf("waiting for login form: %w", err)
	}

	if err := sleep(ctx, frameDelay); err != nil {
		return res, err
	}
	s.screenshot("login.png")

	if login, err := s.scrape(frame.Content, frame.URL()); err == nil {
		res.Pages = append(res.Pages, login)
		if login.Layout != pagescrape.LayoutLogin {
			s.log.Debugf("login frame looks like %s, missing fields?", login.Layout)
		}
	}

	_, err = s.page.ExpectNavigation(func() error {
		_, err := frame.Evaluate(jsSubmitLogin, map[string]any{
			"email":    creds.Email,
			"password": creds.Password,
		})
		return err
	}, pw.PageExpectNavigationOptions{
		WaitUntil: pw.WaitUntilStateLoad,
		Timeout:   pw.Float(ms(s.opts.NavigationTimeout)),
	})
	if err != nil {
		return res, fmt.Errorf("login: %w", err)
	}
	s.screenshot("stats.png")

	stats, err := s.scrape(s.page.Content, s.page.URL())
	if err == nil {
		res.Pages = append(res.Pages, stats)
		if !stats.HasSearch {
			s.log.Debugf("stats page has no search box (layout %s)", stats.Layout)
		}
	}

	if _, err := s.page.Evaluate(jsOpenSearch); err != nil {
		return res, fmt.Errorf("open search: %w", err)
	}
	s.screenshot("search-popup.png")

	if _, err := s.page.Evaluate(jsTypeSearch, searchTerm); err != nil {
		return res, fmt.Errorf("type search: %w", err)
	}

	// Let the search request complete.
	if err := sleep(ctx, searchDelay); err != nil {
		return res, err
	}

	// The settled stats page lists operator cards.
	if settled, err := s.scrape(s.page.Content, s.page.URL()); err != nil {
		s.log.Debugf("scrape settled stats page: %v", err)
	} else {
		res.Pages = append(res.Pages, settled)
		s.log.Debugf("settled stats page lists %d operators", len(settled.Operators))
	}

	return res, nil
}

func (s *Session) loginFrame() pw.Frame {
	for _, f := range s.page.Frames() {
		if strings.HasPrefix(f.URL(), s.opts.LoginFramePrefix) {
			return f
		}
	}
	return nil
}
