/*
Copyright 2024 Onramp Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/onramp-pay/onramp/internal/apierror"
	"github.com/onramp-pay/onramp/model"
)

const credentialColumns = `credential_id, external_id, gateway_account_id, provider, state, worldpay, stripe, verification_payment, created_at, updated_at`

// CreateCredential inserts a new credential row. Identifiers and timestamps
// are assigned if the caller has not set them.
func (d Datasource) CreateCredential(ctx context.Context, credential model.Credential) (model.Credential, error) {
	if credential.CredentialID == "" {
		credential.CredentialID = model.GenerateUUIDWithSuffix("cred")
	}
	if credential.ExternalID == "" {
		credential.ExternalID = model.GenerateUUIDWithSuffix("ext")
	}
	if credential.State == "" {
		credential.State = model.StateCreated
	}
	credential.CreatedAt = time.Now()
	credential.UpdatedAt = credential.CreatedAt

	worldpayJSON, stripeJSON, paymentJSON, err := marshalCredentialPayloads(&credential)
	if err != nil {
		return credential, err
	}

	_, err = d.Conn.ExecContext(ctx, `
		INSERT INTO onramp.credentials (credential_id, external_id, gateway_account_id, provider, state, worldpay, stripe, verification_payment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, credential.CredentialID, credential.ExternalID, credential.GatewayAccountID, credential.Provider,
		credential.State, worldpayJSON, stripeJSON, paymentJSON, credential.CreatedAt, credential.UpdatedAt)

	return credential, err
}

// GetCredential retrieves one credential by internal or external identifier,
// scoped to the owning account.
func (d Datasource) GetCredential(ctx context.Context, accountID, credentialID string) (*model.Credential, error) {
	row := d.Conn.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM onramp.credentials
		WHERE gateway_account_id = $1 AND (credential_id = $2 OR external_id = $2)
	`, credentialColumns), accountID, credentialID)

	credential, err := scanCredential(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apierror.NewAPIError(apierror.ErrNotFound,
				fmt.Sprintf("credential '%s' not found on account '%s'", credentialID, accountID), nil)
		}
		return nil, err
	}
	return credential, nil
}

// GetCredentialsByAccount retrieves all credentials for an account, newest first.
func (d Datasource) GetCredentialsByAccount(ctx context.Context, accountID string) ([]model.Credential, error) {
	rows, err := d.Conn.QueryContext(ctx, fmt.Sprintf(`
		SELECT %s
		FROM onramp.credentials
		WHERE gateway_account_id = $1
		ORDER BY created_at DESC
	`, credentialColumns), accountID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var credentials []model.Credential
	for rows.Next() {
		credential, err := scanCredential(rows)
		if err != nil {
			return nil, err
		}
		credentials = append(credentials, *credential)
	}
	return credentials, rows.Err()
}

// UpdateCredential persists the credential's payloads and derived state. The
// state column is guarded so a concurrent retirement is never overwritten;
// losing that race surfaces as a conflict for the caller to retry against
// fresh data.
func (d Datasource) UpdateCredential(ctx context.Context, credential *model.Credential) error {
	worldpayJSON, stripeJSON, paymentJSON, err := marshalCredentialPayloads(credential)
	if err != nil {
		return err
	}
	credential.UpdatedAt = time.Now()

	result, err := d.Conn.ExecContext(ctx, `
		UPDATE onramp.credentials
		SET state = $2, worldpay = $3, stripe = $4, verification_payment = $5, updated_at = $6
		WHERE credential_id = $1 AND state != 'RETIRED'
	`, credential.CredentialID, credential.State, worldpayJSON, stripeJSON, paymentJSON, credential.UpdatedAt)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound,
			fmt.Sprintf("credential '%s' no longer exists or was retired", credential.CredentialID), nil)
	}
	return nil
}

// ActivateCredential performs the RETIRE-old/ACTIVATE-new swap as a single
// transaction. The account's credential rows are locked for the duration, and
// the state predicates on the UPDATEs act as a compare-and-swap: no reader
// ever observes zero or two ACTIVE credentials on the account. Serialization
// conflicts surface as CONFLICT so the service layer can retry.
func (d Datasource) ActivateCredential(ctx context.Context, accountID, credentialID string) error {
	tx, err := d.Conn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	rows, err := tx.QueryContext(ctx, `
		SELECT credential_id, state
		FROM onramp.credentials
		WHERE gateway_account_id = $1
		FOR UPDATE
	`, accountID)
	if err != nil {
		_ = tx.Rollback()
		return mapActivateError(err)
	}

	var candidateState model.CredentialState
	candidateFound := false
	for rows.Next() {
		var id string
		var state model.CredentialState
		if err := rows.Scan(&id, &state); err != nil {
			_ = rows.Close()
			_ = tx.Rollback()
			return err
		}
		if id == credentialID {
			candidateFound = true
			candidateState = state
		}
	}
	if err := rows.Err(); err != nil {
		_ = tx.Rollback()
		return err
	}
	_ = rows.Close()

	if !candidateFound {
		_ = tx.Rollback()
		return apierror.NewAPIError(apierror.ErrNotFound,
			fmt.Sprintf("credential '%s' not found on account '%s'", credentialID, accountID), nil)
	}

	switch candidateState {
	case model.StateActive:
		// Already serving; nothing to swap.
		return tx.Commit()
	case model.StateRetired:
		_ = tx.Rollback()
		return apierror.NewAPIError(apierror.ErrConflict,
			fmt.Sprintf("credential '%s' is retired and cannot be activated", credentialID), nil)
	}

	_, err = tx.ExecContext(ctx, `
		UPDATE onramp.credentials
		SET state = 'RETIRED', updated_at = NOW()
		WHERE gateway_account_id = $1 AND state = 'ACTIVE' AND credential_id != $2
	`, accountID, credentialID)
	if err != nil {
		_ = tx.Rollback()
		return mapActivateError(err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE onramp.credentials
		SET state = 'ACTIVE', updated_at = NOW()
		WHERE credential_id = $1 AND state IN ('CREATED', 'ENTERED')
	`, credentialID)
	if err != nil {
		_ = tx.Rollback()
		return mapActivateError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	if affected != 1 {
		// The candidate changed state underneath us.
		_ = tx.Rollback()
		return apierror.NewAPIError(apierror.ErrConflict,
			fmt.Sprintf("credential '%s' changed state during activation", credentialID), nil)
	}

	if err := tx.Commit(); err != nil {
		return mapActivateError(err)
	}
	return nil
}

// mapActivateError converts Postgres serialization/deadlock failures into a
// retryable conflict.
func mapActivateError(err error) error {
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "40001" || pqErr.Code == "40P01" {
			return apierror.NewAPIError(apierror.ErrConflict, "concurrent credential activation, retry", err)
		}
	}
	return err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCredential(row rowScanner) (*model.Credential, error) {
	credential := &model.Credential{}
	var worldpayJSON, stripeJSON, paymentJSON []byte

	err := row.Scan(&credential.CredentialID, &credential.ExternalID, &credential.GatewayAccountID,
		&credential.Provider, &credential.State, &worldpayJSON, &stripeJSON, &paymentJSON,
		&credential.CreatedAt, &credential.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(worldpayJSON) > 0 {
		if err := json.Unmarshal(worldpayJSON, &credential.Worldpay); err != nil {
			return nil, err
		}
	}
	if len(stripeJSON) > 0 {
		if err := json.Unmarshal(stripeJSON, &credential.Stripe); err != nil {
			return nil, err
		}
	}
	if len(paymentJSON) > 0 {
		if err := json.Unmarshal(paymentJSON, &credential.VerificationPayment); err != nil {
			return nil, err
		}
	}
	return credential, nil
}

func marshalCredentialPayloads(credential *model.Credential) ([]byte, []byte, []byte, error) {
	var worldpayJSON, stripeJSON, paymentJSON []byte
	var err error

	if credential.Worldpay != nil {
		if worldpayJSON, err = json.Marshal(credential.Worldpay); err != nil {
			return nil, nil, nil, err
		}
	}
	if credential.Stripe != nil {
		if stripeJSON, err = json.Marshal(credential.Stripe); err != nil {
			return nil, nil, nil, err
		}
	}
	if credential.VerificationPayment != nil {
		if paymentJSON, err = json.Marshal(credential.VerificationPayment); err != nil {
			return nil, nil, nil, err
		}
	}
	return worldpayJSON, stripeJSON, paymentJSON, nil
}
