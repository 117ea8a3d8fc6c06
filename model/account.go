package model

import "time"

// Gateway account types.
const (
	AccountTypeLive = "live"
	AccountTypeTest = "test"
)

// GatewayAccount identifies a merchant's processing account. It is a
// read/refresh-on-demand aggregate: the credential subsystem reloads it from
// the store before every state-changing decision.
type GatewayAccount struct {
	AccountID             string                 `json:"account_id"`
	Type                  string                 `json:"type"`
	Provider              string                 `json:"provider"`
	ProviderSwitchEnabled bool                   `json:"provider_switch_enabled"`
	RecurringEnabled      bool                   `json:"recurring_enabled"`
	Credentials           []Credential           `json:"credentials,omitempty"`
	CreatedAt             time.Time              `json:"created_at"`
	MetaData              map[string]interface{} `json:"meta_data,omitempty"`
}

func (a *GatewayAccount) IsLive() bool {
	return a.Type == AccountTypeLive
}

// ActiveCredential returns the credential serving traffic, or nil.
// The store guarantees at most one per account.
func (a *GatewayAccount) ActiveCredential() *Credential {
	for i := range a.Credentials {
		if a.Credentials[i].State == StateActive {
			return &a.Credentials[i]
		}
	}
	return nil
}

// PendingCredentials returns all in-flight (CREATED or ENTERED) credentials.
// More than one is a data-integrity violation the switch coordinator refuses
// to guess its way around.
func (a *GatewayAccount) PendingCredentials() []*Credential {
	var pending []*Credential
	for i := range a.Credentials {
		if a.Credentials[i].Pending() {
			pending = append(pending, &a.Credentials[i])
		}
	}
	return pending
}

// Credential looks a credential up by internal or external identifier.
func (a *GatewayAccount) Credential(id string) *Credential {
	for i := range a.Credentials {
		if a.Credentials[i].CredentialID == id || a.Credentials[i].ExternalID == id {
			return &a.Credentials[i]
		}
	}
	return nil
}
