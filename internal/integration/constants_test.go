package integration_test

const (
	// User related constants
	TestUserId        = 1
	TestUserFirstName = "Ana"
	TestUserLastName  = "Pérez"
	TestUserEmail     = "ana@example.com"
	TestUserToken     = "token-ana"

	OtherUserId    = 2
	OtherUserToken = "token-bruno"

	// Catalog fixtures, see testdata/catalog_up.sql
	TestEventoId          = 1
	TestEventoName        = "Cata de Malbec"
	TestInstanciaId       = 1
	TestSmallInstanciaId  = 3
	TestSuspendedInstance = 4

	// Recorrido fixtures, see testdata/recorridos_up.sql
	TestRecorridoId          = 1
	TestCancelledRecorridoId = 2
	OtherUserRecorridoId     = 3

	TestWebhookSecret = "whsec_integration"
)
