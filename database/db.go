package database

import (
	"database/sql"
	"log"
	"sync"

	_ "github.com/lib/pq"

	"github.com/onramp-pay/onramp/cache"
	"github.com/onramp-pay/onramp/config"
)

// Declare a package-level variable to hold the singleton instance.
// Ensure the instance is not accessible outside the package.
var instance *Datasource
var once sync.Once

type Datasource struct {
	Conn  *sql.DB
	Cache cache.Cache
}

func NewDataSource(configuration *config.Configuration) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	return con, nil
}

// GetDBConnection provides a global access point to the instance and initializes it if it's not already.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con, Cache: nil}
	})
	if err != nil {
		return nil, err
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}
	err = db.Ping()
	if err != nil {
		log.Printf("database connection error: %v", err)
		return nil, err
	}
	err = createSchema(db)
	if err != nil {
		return nil, err
	}
	err = createGatewayAccountTable(db)
	if err != nil {
		return nil, err
	}
	err = createCredentialTable(db)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func createSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE SCHEMA IF NOT EXISTS onramp`)
	return err
}

func createGatewayAccountTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS onramp.gateway_accounts (
			account_id TEXT PRIMARY KEY,
			type TEXT NOT NULL CHECK (type IN ('live', 'test')),
			provider TEXT NOT NULL,
			provider_switch_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			recurring_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			meta_data JSONB
		)
	`)
	return err
}

func createCredentialTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS onramp.credentials (
			credential_id TEXT PRIMARY KEY,
			external_id TEXT NOT NULL UNIQUE,
			gateway_account_id TEXT NOT NULL REFERENCES onramp.gateway_accounts(account_id),
			provider TEXT NOT NULL,
			state TEXT NOT NULL CHECK (state IN ('CREATED', 'ENTERED', 'ACTIVE', 'RETIRED')),
			worldpay JSONB,
			stripe JSONB,
			verification_payment JSONB,
			created_at TIMESTAMP NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMP NOT NULL DEFAULT NOW()
		)
	`)
	return err
}
