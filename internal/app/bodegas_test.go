package app

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/enoturismo/recorridos/api"
	"github.com/enoturismo/recorridos/internal/domain"
	"github.com/enoturismo/recorridos/internal/mocks"
	"github.com/enoturismo/recorridos/internal/validator"
	"github.com/google/go-cmp/cmp"
)

func TestGetBodegas(t *testing.T) {
	tests := []struct {
		name           string
		params         api.GetBodegasParams
		getAllFunc     func(context.Context, domain.BodegaFilters) ([]domain.Bodega, *domain.Metadata, error)
		wantStatus     int
		wantErrMessage string
		wantResponse   *api.BodegaListResponse
	}{
		{
			name:   "filtered by name",
			params: api.GetBodegasParams{Nombre: ptr("norte"), Sort: ptr("-nombre")},
			getAllFunc: func(ctx context.Context, filters domain.BodegaFilters) ([]domain.Bodega, *domain.Metadata, error) {
				if filters.Name != "norte" || filters.Sort != "-nombre" {
					return nil, nil, fmt.Errorf("unexpected filters %+v", filters)
				}

				return []domain.Bodega{
					{
						ID:          1,
						Name:        "Bodega Norte",
						Description: "Viñedos de altura",
						Sucursales: []domain.Sucursal{
							{ID: 2, Name: "Casa central", IsMain: true, Address: "Ruta 40 km 3", BodegaID: 1},
						},
					},
				}, &domain.Metadata{CurrentPage: 1, FirstPage: 1, LastPage: 1, PageSize: 10, TotalRecords: 1}, nil
			},
			wantStatus: http.StatusOK,
			wantResponse: &api.BodegaListResponse{
				Bodegas: []api.BodegaResponse{
					{
						Id:          1,
						Nombre:      "Bodega Norte",
						Descripcion: "Viñedos de altura",
						Sucursales: []api.SucursalResponse{
							{Id: 2, Nombre: "Casa central", EsPrincipal: true, Direccion: "Ruta 40 km 3", BodegaId: 1},
						},
					},
				},
				Metadata: &api.Metadata{CurrentPage: 1, FirstPage: 1, LastPage: 1, PageSize: 10, TotalRecords: 1},
			},
		},
		{
			name:           "page size too large",
			params:         api.GetBodegasParams{PageSize: ptr(101)},
			wantStatus:     http.StatusUnprocessableEntity,
			wantErrMessage: fmt.Sprintf(validator.ErrMaxValue, "100"),
		},
		{
			name: "database error",
			getAllFunc: func(ctx context.Context, filters domain.BodegaFilters) ([]domain.Bodega, *domain.Metadata, error) {
				return nil, nil, fmt.Errorf("database connection error")
			},
			wantStatus:     http.StatusInternalServerError,
			wantErrMessage: ErrInternalServer,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication(func(a *Application) {
				a.bodegaRepo = &mocks.MockBodegaRepo{GetAllFunc: tt.getAllFunc}
			})

			w, r := executeRequest(t, http.MethodGet, "/bodegas", nil)

			app.GetBodegas(w, r, tt.params)

			if got := w.Code; got != tt.wantStatus {
				t.Errorf("GetBodegas() status = %v, want %v", got, tt.wantStatus)
			}

			if tt.wantResponse != nil {
				var response api.BodegaListResponse
				if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
					t.Fatalf("Failed to decode response: %v", err)
				}

				if diff := cmp.Diff(tt.wantResponse, &response); diff != "" {
					t.Errorf("GetBodegas() response mismatch (-want +got):\n%s", diff)
				}
			}

			checkErrorResponse(t, w, struct {
				wantStatus     int
				wantErrMessage string
			}{
				wantStatus:     tt.wantStatus,
				wantErrMessage: tt.wantErrMessage,
			})
		})
	}
}

func TestGetBodega(t *testing.T) {
	app := newTestApplication(func(a *Application) {
		a.bodegaRepo = &mocks.MockBodegaRepo{
			GetByIdFunc: func(ctx context.Context, id int) (*domain.Bodega, error) {
				return nil, domain.ErrRecordNotFound
			},
		}
	})

	w, r := executeRequest(t, http.MethodGet, "/bodegas/5", nil)

	app.GetBodega(w, r, 5)

	if w.Code != http.StatusNotFound {
		t.Errorf("GetBodega() status = %v, want %v", w.Code, http.StatusNotFound)
	}

	checkErrorResponse(t, w, struct {
		wantStatus     int
		wantErrMessage string
	}{
		wantStatus:     http.StatusNotFound,
		wantErrMessage: ErrBodegaNotFound,
	})
}
