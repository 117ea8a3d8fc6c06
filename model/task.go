package model

// Task is a derived, stateless view of one onboarding step. It is computed
// fresh on every task-engine call and never persisted.
type Task struct {
	Name       string `json:"name"`
	Complete   bool   `json:"complete"`
	Applicable bool   `json:"applicable"`
}

// Task names shared between the registries, the service layer and the API.
const (
	TaskAccountCredentials       = "account_credentials"
	TaskRecurringCIT             = "recurring_customer_initiated"
	TaskRecurringMIT             = "recurring_merchant_initiated"
	TaskFlexCredentials          = "3ds_flex_credentials"
	TaskVerificationPayment      = "verification_payment"
	TaskBankDetails              = "bank_details"
	TaskResponsiblePerson        = "responsible_person"
	TaskDirector                 = "director"
	TaskVATNumber                = "vat_number"
	TaskCompanyNumber            = "company_number"
	TaskGovernmentEntityDocument = "government_entity_document"
	TaskOrganisationDetails      = "organisation_details"
)
