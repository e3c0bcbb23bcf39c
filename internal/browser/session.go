package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// SessionStore persists cookies and localStorage between runs so the site
// sees a returning visitor and skips most consent flows.
type SessionStore struct {
	path string
}

func NewSessionStore(path string) *SessionStore {
	return &SessionStore{path: path}
}

type sessionState struct {
	Cookies      []sessionCookie   `json:"cookies"`
	LocalStorage map[string]string `json:"local_storage"`
}

type sessionCookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"http_only"`
	Secure   bool    `json:"secure"`
}

// Restore loads the saved state into the page. A missing or unreadable file
// is not an error: the run simply starts with a fresh session.
func (s *SessionStore) Restore(ctx context.Context, b *Browser) error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		slog.Warn("Failed to read session file, starting fresh", "path", s.path, "error", err)
		return nil
	}

	var state sessionState
	if err := json.Unmarshal(data, &state); err != nil {
		slog.Warn("Failed to parse session file, starting fresh", "path", s.path, "error", err)
		return nil
	}

	err = chromedp.Run(b.Context(), chromedp.ActionFunc(func(cctx context.Context) error {
		for _, c := range state.Cookies {
			p := network.SetCookie(c.Name, c.Value).
				WithDomain(c.Domain).
				WithPath(c.Path).
				WithHTTPOnly(c.HTTPOnly).
				WithSecure(c.Secure)
			if c.Expires > 0 {
				expires := cdp.TimeSinceEpoch(epochTime(c.Expires))
				p = p.WithExpires(&expires)
			}
			if err := p.Do(cctx); err != nil {
				slog.Warn("Failed to restore cookie", "name", c.Name, "error", err)
			}
		}
		return nil
	}))
	if err != nil {
		return fmt.Errorf("failed to restore cookies: %w", err)
	}

	if len(state.LocalStorage) > 0 {
		js := "(() => {"
		for k, v := range state.LocalStorage {
			js += fmt.Sprintf("try { localStorage.setItem(%s, %s); } catch (e) {}\n",
				strconv.Quote(k), strconv.Quote(v))
		}
		js += "return true; })()"
		if err := b.Evaluate(ctx, js, nil); err != nil {
			slog.Warn("Failed to restore localStorage", "error", err)
		}
	}

	slog.Info("Session restored", "cookies", len(state.Cookies), "local_storage_keys", len(state.LocalStorage))
	return nil
}

// Capture saves the current cookies and localStorage to disk.
func (s *SessionStore) Capture(ctx context.Context, b *Browser) error {
	var state sessionState

	err := chromedp.Run(b.Context(), chromedp.ActionFunc(func(cctx context.Context) error {
		cookies, err := network.GetCookies().Do(cctx)
		if err != nil {
			return err
		}
		for _, c := range cookies {
			state.Cookies = append(state.Cookies, sessionCookie{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Expires:  c.Expires,
				HTTPOnly: c.HTTPOnly,
				Secure:   c.Secure,
			})
		}
		return nil
	}))
	if err != nil {
		return fmt.Errorf("failed to read cookies: %w", err)
	}

	if err := b.Evaluate(ctx, `JSON.parse(JSON.stringify(Object.fromEntries(Object.entries(localStorage))))`, &state.LocalStorage); err != nil {
		slog.Warn("Failed to read localStorage", "error", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}

	slog.Info("Session captured", "path", s.path, "cookies", len(state.Cookies))
	return nil
}

func epochTime(sec float64) time.Time {
	whole := int64(sec)
	return time.Unix(whole, int64((sec-float64(whole))*1e9))
}
