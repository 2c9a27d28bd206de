// File: internal/steps/login.go
package steps

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/usher/internal/browser"
	"github.com/xkilldash9x/usher/internal/strategy"
)

// Login attempts the credential step. Returns (true, nil) when done,
// (false, nil) when inconclusive, (false, err) on an interaction error.
//
// When no credential field is visible at all the step reports success on
// the assumption the session is already authenticated. The executor
// cannot tell "already logged in" from "wrong page"; the workflow guard
// makes that call separately.
func Login(ctx context.Context, page browser.Page, st strategy.LoginStrategy, creds Credentials, logger *zap.Logger) (bool, error) {
	log := logger.Named("login")

	userSel, found := firstVisible(ctx, page, st.UserFields, log)
	if !found {
		log.Info("No credential input fields found; assuming already authenticated")
		return true, nil
	}

	if err := page.Fill(ctx, userSel, creds.Username, candidateWait); err != nil {
		return false, fmt.Errorf("failed to fill username field: %w", err)
	}

	passSel, found := firstVisible(ctx, page, st.PasswordField, log)
	if !found {
		log.Warn("Username field present but no password field found")
		return false, nil
	}
	if err := page.Fill(ctx, passSel, creds.Password, candidateWait); err != nil {
		return false, fmt.Errorf("failed to fill password field: %w", err)
	}

	if submitSel, ok := firstVisible(ctx, page, st.SubmitButtons, log); ok {
		if err := page.Click(ctx, submitSel, candidateWait); err != nil {
			return false, fmt.Errorf("failed to click login button: %w", err)
		}
	} else {
		// No visible button; submit the form the password field belongs to.
		if err := page.Submit(ctx, passSel, candidateWait); err != nil {
			return false, fmt.Errorf("failed to submit login form: %w", err)
		}
	}

	// Let the post-login navigation land before the guard inspects it.
	if err := page.Sleep(ctx, 2*time.Second); err != nil {
		return false, err
	}
	log.Info("Login form submitted")
	return true, nil
}
