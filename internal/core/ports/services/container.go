package services

// ServiceContainer bundles the service facades for route registration.
type ServiceContainer struct {
	Auth       AuthSvcFacade
	Permission PermissionSvcFacade
	Quotation  QuotationSvcFacade
	Invoice    InvoiceSvcFacade
	Role       RoleSvcFacade
}
