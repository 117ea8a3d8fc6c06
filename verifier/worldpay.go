package verifier

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/onramp-pay/onramp/config"
	"github.com/onramp-pay/onramp/internal/request"
	"github.com/onramp-pay/onramp/model"
)

// Worldpay checks candidate merchant credentials by making an authenticated
// no-op inquiry against the Worldpay gateway. A 401/403 means the credentials
// were rejected; anything else unexpected is a transport failure the caller
// surfaces as "could not check".
type Worldpay struct{}

func NewWorldpay() *Worldpay {
	return &Worldpay{}
}

func (w *Worldpay) Provider() string {
	return model.ProviderWorldpay
}

func (w *Worldpay) Verify(ctx context.Context, payload model.TaskPayload) (*Result, error) {
	switch p := payload.(type) {
	case *model.WorldpayOneOffPayload:
		return w.checkMerchantDetails(ctx, &p.WorldpayMerchantDetails)
	case *model.WorldpayCITPayload:
		return w.checkMerchantDetails(ctx, &p.WorldpayMerchantDetails)
	case *model.WorldpayMITPayload:
		return w.checkMerchantDetails(ctx, &p.WorldpayMerchantDetails)
	case *model.FlexPayload:
		return w.checkFlexCredentials(ctx, &p.FlexCredentials)
	default:
		// Nothing to check remotely for this task.
		return accepted(), nil
	}
}

type worldpayInquiry struct {
	MerchantCode string `json:"merchantCode"`
}

func (w *Worldpay) checkMerchantDetails(ctx context.Context, details *model.WorldpayMerchantDetails) (*Result, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	body, err := request.ToJsonReq(worldpayInquiry{MerchantCode: details.MerchantCode})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(cnf.Worldpay.TimeoutSeconds)*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/merchant-codes/inquiry", cnf.Worldpay.URL), body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Basic "+request.BasicAuth(details.Username, details.Password))

	resp, err := request.Call(req, nil)
	if err != nil {
		return nil, errors.Wrap(err, "worldpay credential check failed")
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return accepted(), nil
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		logrus.Infof("worldpay rejected merchant code %s", details.MerchantCode)
		return &Result{OK: false, Reason: "Worldpay rejected the merchant code, username or password"}, nil
	default:
		return nil, errors.Errorf("worldpay credential check returned unexpected status %d", resp.StatusCode)
	}
}

type flexCheckRequest struct {
	OrganisationalUnitID string `json:"organisationalUnitId"`
	Issuer               string `json:"issuer"`
	JWTMACKey            string `json:"jwtMacKey"`
}

type flexCheckResponse struct {
	Result string `json:"result"`
}

func (w *Worldpay) checkFlexCredentials(ctx context.Context, flex *model.FlexCredentials) (*Result, error) {
	cnf, err := config.Fetch()
	if err != nil {
		return nil, err
	}

	body, err := request.ToJsonReq(flexCheckRequest{
		OrganisationalUnitID: flex.OrganisationalUnitID,
		Issuer:               flex.Issuer,
		JWTMACKey:            flex.JWTMACKey,
	})
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, time.Duration(cnf.Worldpay.TimeoutSeconds)*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/3ds-flex/credentials-check", cnf.Worldpay.URL), body)
	if err != nil {
		return nil, err
	}

	var checkResp flexCheckResponse
	resp, err := request.Call(req, &checkResp)
	if err != nil {
		return nil, errors.Wrap(err, "worldpay 3ds flex check failed")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("worldpay 3ds flex check returned unexpected status %d", resp.StatusCode)
	}

	if checkResp.Result != "valid" {
		return &Result{OK: false, Reason: "Worldpay rejected the 3DS Flex credentials"}, nil
	}
	return accepted(), nil
}
