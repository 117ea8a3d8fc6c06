package verifier

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/onramp-pay/onramp/config"
	"github.com/onramp-pay/onramp/internal/request"
	"github.com/onramp-pay/onramp/model"
)

// Stripe forwards onboarding fragments to the connected Stripe account. A
// rejected mutation carries a typed Stripe error code and param, which is
// mapped to a field-specific Result rather than a generic failure.
type Stripe struct{}

func NewStripe() *Stripe {
	return &Stripe{}
}

func (s *Stripe) Provider() string {
	return model.ProviderStripe
}

type stripeError struct {
	Code    string `json:"code"`
	Param   string `json:"param"`
	Message string `json:"message"`
}

type stripeAccountResponse struct {
	ID    string       `json:"id"`
	Error *stripeError `json:"error,omitempty"`
}

func (s *Stripe) Verify(ctx context.Context, payload model.TaskPayload) (*Result, error) {
	p, ok := payload.(*model.StripeTaskPayload)
	if !ok {
		// Nothing to check remotely for this task.
		return accepted(), nil
	}

	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	body, err := request.ToJsonReq(map[string]interface{}{
		"task":   p.Task,
		"fields": p.Fields,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/v1/accounts/%s", cnf.Stripe.URL, p.ConnectAccount), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+cnf.Stripe.SecretKey)

	var accountResp stripeAccountResponse
	resp, err := request.Call(req, &accountResp)
	if err != nil {
		return nil, errors.Wrap(err, "stripe account update failed")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return accepted(), nil
	case resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError:
		if accountResp.Error == nil {
			return &Result{OK: false, Reason: "Stripe rejected the submitted details"}, nil
		}
		logrus.Infof("stripe rejected %s update: %s", p.Task, accountResp.Error.Code)
		return &Result{
			OK:     false,
			Reason: accountResp.Error.Message,
			Field:  accountResp.Error.Param,
		}, nil
	default:
		return nil, errors.Errorf("stripe account update returned unexpected status %d", resp.StatusCode)
	}
}
