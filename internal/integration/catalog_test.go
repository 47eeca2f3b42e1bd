package integration_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/enoturismo/recorridos/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type CatalogTestSuite struct {
	BaseSuite
}

func TestCatalogSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(CatalogTestSuite))
}

func (s *CatalogTestSuite) SetupTest() {
	resetState(s.T(), s.app)
}

func (s *CatalogTestSuite) TestGetEventos() {
	scenarios := []Scenario{
		{
			Name:             "returns 400 for a page size above the maximum",
			Method:           "GET",
			URL:              "/eventos?pageSize=101",
			ExpectedStatus:   http.StatusBadRequest,
			ExpectedResponse: `{"message": "invalid query parameter \"pageSize\""}`,
		},
		{
			Name:             "returns 400 when fechaHasta precedes fechaDesde",
			Method:           "GET",
			URL:              "/eventos?fechaDesde=2095-07-05&fechaHasta=2095-07-03",
			ExpectedStatus:   http.StatusBadRequest,
			ExpectedResponse: `{"message": "fechaHasta must not be before fechaDesde"}`,
		},
		{
			Name:           "lists every evento with its cover and sucursal",
			Method:         "GET",
			URL:            "/eventos",
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				resp := decodeResponse[api.EventoListResponse](t, res)

				require.Len(t, resp.Eventos, 2)
				assert.Equal(t, TestEventoName, resp.Eventos[0].Nombre)
				assert.Equal(t, "1500.50", resp.Eventos[0].Precio)
				assert.Equal(t, "Casa principal", resp.Eventos[0].Sucursal.Nombre)
				require.NotNil(t, resp.Eventos[0].Portada)
				assert.Equal(t, "https://cdn.example.com/malbec.jpg", *resp.Eventos[0].Portada)
				assert.Nil(t, resp.Eventos[1].Portada)
				assert.Equal(t, 2, resp.Metadata.TotalRecords)
			},
		},
		{
			Name:           "filters by bodega and minimum price",
			Method:         "GET",
			URL:            "/eventos?bodegaId=2&precioMinimo=2000",
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				resp := decodeResponse[api.EventoListResponse](t, res)

				require.Len(t, resp.Eventos, 1)
				assert.Equal(t, 2, resp.Eventos[0].Id)
			},
		},
		{
			Name:           "filters by instancia date range",
			Method:         "GET",
			URL:            "/eventos?fechaDesde=2095-07-05&fechaHasta=2095-07-05",
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				resp := decodeResponse[api.EventoListResponse](t, res)

				require.Len(t, resp.Eventos, 1)
				assert.Equal(t, TestEventoId, resp.Eventos[0].Id)
			},
		},
		{
			Name:           "sorts by descending price",
			Method:         "GET",
			URL:            "/eventos?sort=-precio&pageSize=1",
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				resp := decodeResponse[api.EventoListResponse](t, res)

				require.Len(t, resp.Eventos, 1)
				assert.Equal(t, 2, resp.Eventos[0].Id)
				assert.Equal(t, 2, resp.Metadata.LastPage)
			},
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}

func (s *CatalogTestSuite) TestGetEventoAndInstancia() {
	scenarios := []Scenario{
		{
			Name:             "returns 404 for an unknown evento",
			Method:           "GET",
			URL:              "/eventos/999",
			ExpectedStatus:   http.StatusNotFound,
			ExpectedResponse: `{"message": "evento not found"}`,
		},
		{
			Name:           "returns the evento with instancias and multimedia",
			Method:         "GET",
			URL:            "/eventos/1",
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				resp := decodeResponse[api.EventoDetailResponse](t, res)

				assert.Equal(t, TestEventoName, resp.Nombre)
				assert.Len(t, resp.Instancias, 2)
				assert.Len(t, resp.Multimedia, 2)
			},
		},
		{
			Name:           "returns an instancia with its evento",
			Method:         "GET",
			URL:            "/eventos/instancia/3",
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				resp := decodeResponse[api.InstanciaDetailResponse](t, res)

				assert.Equal(t, TestSmallInstanciaId, resp.Instancia.Id)
				assert.Equal(t, api.ACTIVA, resp.Instancia.Estado)
				assert.Equal(t, 2, resp.Evento.Id)
			},
		},
		{
			Name:             "returns 404 for an unknown instancia",
			Method:           "GET",
			URL:              "/eventos/instancia/999",
			ExpectedStatus:   http.StatusNotFound,
			ExpectedResponse: `{"message": "event instance not found"}`,
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}

func (s *CatalogTestSuite) TestLookups() {
	res := s.get("/categoria-eventos")
	categorias := decodeResponse[[]api.CategoriaResponse](s.T(), res)
	s.Equal([]api.CategoriaResponse{{Id: 1, Nombre: "Degustación"}, {Id: 2, Nombre: "Gastronomía"}}, categorias)

	res = s.get("/estado-eventos")
	estados := decodeResponse[[]api.EstadoEventoResponse](s.T(), res)
	s.Len(estados, 2)
}

func (s *CatalogTestSuite) TestGetBodegas() {
	scenarios := []Scenario{
		{
			Name:           "lists bodegas with their sucursales",
			Method:         "GET",
			URL:            "/bodegas?sort=nombre",
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				resp := decodeResponse[api.BodegaListResponse](t, res)

				require.Len(t, resp.Bodegas, 2)
				assert.Equal(t, "Bodega Catena", resp.Bodegas[0].Nombre)
				require.Len(t, resp.Bodegas[0].Sucursales, 1)
				assert.Equal(t, "Ruta 40 km 3", resp.Bodegas[0].Sucursales[0].Direccion)
			},
		},
		{
			Name:           "filters bodegas by name",
			Method:         "GET",
			URL:            "/bodegas?nombre=zucc",
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				resp := decodeResponse[api.BodegaListResponse](t, res)

				require.Len(t, resp.Bodegas, 1)
				assert.Equal(t, 2, resp.Bodegas[0].Id)
			},
		},
		{
			Name:             "returns 404 for an unknown bodega",
			Method:           "GET",
			URL:              "/bodegas/999",
			ExpectedStatus:   http.StatusNotFound,
			ExpectedResponse: `{"message": "bodega not found"}`,
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}

func (s *CatalogTestSuite) get(url string) *http.Response {
	req := prepareRequest(http.MethodGet, url, nil, nil, nil)
	rec := httptest.NewRecorder()
	s.app.App.Routes().ServeHTTP(rec, req)

	s.Require().Equal(http.StatusOK, rec.Code)

	return rec.Result()
}

func (s *CatalogTestSuite) TestGetFaqs() {
	scenarios := []Scenario{
		{
			Name:             "returns 400 for an unknown recipient",
			Method:           "GET",
			URL:              "/faqs?recipient=guest",
			ExpectedStatus:   http.StatusBadRequest,
			ExpectedResponse: `{"message": "invalid query parameter \"recipient\""}`,
		},
		{
			Name:           "lists every faq",
			Method:         "GET",
			URL:            "/faqs",
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				resp := decodeResponse[api.FaqListResponse](t, res)

				require.Len(t, resp.Faqs, 3)
				assert.Equal(t, 1, resp.Faqs[0].Id)
				assert.Equal(t, "user", resp.Faqs[0].Recipient.Name)
				assert.Equal(t, 3, resp.Metadata.TotalRecords)
			},
		},
		{
			Name:           "end users see their faqs and the shared ones, newest first",
			Method:         "GET",
			URL:            "/faqs?recipient=user&sort=-created_at",
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				resp := decodeResponse[api.FaqListResponse](t, res)

				require.Len(t, resp.Faqs, 2)
				assert.Equal(t, 3, resp.Faqs[0].Id)
				assert.Equal(t, "both", resp.Faqs[0].Recipient.Name)
				assert.Equal(t, 1, resp.Faqs[1].Id)
				assert.Equal(t, 2, resp.Metadata.TotalRecords)
			},
		},
		{
			Name:           "paginates",
			Method:         "GET",
			URL:            "/faqs?page=2&pageSize=2",
			ExpectedStatus: http.StatusOK,
			AfterTestFunc: func(t testing.TB, app *TestApp, res *http.Response) {
				resp := decodeResponse[api.FaqListResponse](t, res)

				require.Len(t, resp.Faqs, 1)
				assert.Equal(t, 3, resp.Faqs[0].Id)
				assert.Equal(t, 2, resp.Metadata.LastPage)
			},
		},
	}

	for _, scenario := range scenarios {
		scenario.Run(s.T(), s.app)
	}
}
