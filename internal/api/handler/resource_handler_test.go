package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmlink/marketplace-api/internal/core/domain"
)

type stubCattleService struct {
	created    *domain.Cattle
	createdBy  *domain.Account
	lastFilter domain.ResourceFilter
	replaceID  string
	err        error
}

func (s *stubCattleService) Create(_ context.Context, actor *domain.Account, r *domain.Cattle) (*domain.Cattle, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.created, s.createdBy = r, actor
	r.ID = "cattle-1"
	r.OwnerID = actor.ID
	return r, nil
}

func (s *stubCattleService) Get(_ context.Context, id string) (*domain.Cattle, error) {
	if s.err != nil {
		return nil, s.err
	}
	c := &domain.Cattle{Title: "Angus", Breed: "Angus"}
	c.ID = id
	return c, nil
}

func (s *stubCattleService) List(_ context.Context, f domain.ResourceFilter) ([]*domain.Cattle, error) {
	s.lastFilter = f
	return nil, s.err
}

func (s *stubCattleService) Replace(_ context.Context, actor *domain.Account, id string, r *domain.Cattle) (*domain.Cattle, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.replaceID = id
	return r, nil
}

func (s *stubCattleService) Delete(_ context.Context, actor *domain.Account, id string) error {
	return s.err
}

var farmer = &domain.Identity{Account: &domain.Account{ID: "farmer-1", Role: domain.RoleFarmer, Active: true}}

func TestResourceHandler_Create_IgnoresPayloadOwnership(t *testing.T) {
	e := newTestEcho()
	svc := &stubCattleService{}
	h := NewCattleHandler(svc)

	body := `{"id":"forged","owner_id":"someone-else","title":"Angus heifer","breed":"Angus","price":1500}`
	rec := httptest.NewRecorder()
	c := e.NewContext(withIdentity(jsonRequest(http.MethodPost, "/v1/cattle", body), farmer), rec)

	require.NoError(t, h.Create(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.created)
	assert.Equal(t, farmer.Account, svc.createdBy)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "farmer-1", resp["owner_id"])
	assert.Equal(t, "cattle-1", resp["id"])
}

func TestResourceHandler_Create_Validation(t *testing.T) {
	e := newTestEcho()
	h := NewCattleHandler(&stubCattleService{})

	cases := map[string]string{
		"missing title":  `{"breed":"Angus"}`,
		"negative price": `{"title":"a","breed":"b","price":-1}`,
		"unknown status": `{"title":"a","breed":"b","status":"stolen"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			c := e.NewContext(withIdentity(jsonRequest(http.MethodPost, "/v1/cattle", body), farmer), httptest.NewRecorder())
			assert.ErrorIs(t, h.Create(c), domain.ErrValidation)
		})
	}
}

func TestResourceHandler_List_OwnerMe(t *testing.T) {
	e := newTestEcho()
	svc := &stubCattleService{}
	h := NewCattleHandler(svc)

	rec := httptest.NewRecorder()
	req := withIdentity(httptest.NewRequest(http.MethodGet, "/v1/cattle?owner=me&status=sold&limit=5", nil), farmer)
	c := e.NewContext(req, rec)

	require.NoError(t, h.List(c))
	assert.Equal(t, "farmer-1", svc.lastFilter.OwnerID)
	assert.Equal(t, "sold", svc.lastFilter.Status)
	assert.Equal(t, 5, svc.lastFilter.Limit)
	assert.JSONEq(t, `{"items":[],"count":0}`, rec.Body.String())
}

func TestResourceHandler_List_OwnerMeNeedsIdentity(t *testing.T) {
	e := newTestEcho()
	h := NewCattleHandler(&stubCattleService{})

	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/cattle?owner=me", nil), httptest.NewRecorder())
	assert.ErrorIs(t, h.List(c), domain.ErrUnauthenticated)

	c = e.NewContext(httptest.NewRequest(http.MethodGet, "/v1/cattle?limit=-3", nil), httptest.NewRecorder())
	assert.ErrorIs(t, h.List(c), domain.ErrValidation)
}

func TestResourceHandler_ReplaceAndDelete(t *testing.T) {
	e := newTestEcho()
	svc := &stubCattleService{}
	h := NewCattleHandler(svc)

	rec := httptest.NewRecorder()
	c := e.NewContext(withIdentity(jsonRequest(http.MethodPut, "/v1/cattle/cattle-9", `{"title":"a","breed":"b"}`), farmer), rec)
	c.SetParamNames("id")
	c.SetParamValues("cattle-9")
	require.NoError(t, h.Replace(c))
	assert.Equal(t, "cattle-9", svc.replaceID)

	svc.err = domain.ErrForbidden
	c = e.NewContext(withIdentity(httptest.NewRequest(http.MethodDelete, "/v1/cattle/cattle-9", nil), farmer), httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("cattle-9")
	err := h.Delete(c)
	assert.True(t, errors.Is(err, domain.ErrForbidden))
}

func TestResourceHandler_NewsURLValidation(t *testing.T) {
	e := newTestEcho()
	_, err := decodeNews(e.NewContext(jsonRequest(http.MethodPost, "/v1/news", `{"title":"t","body":"b","source_url":"not a url"}`), httptest.NewRecorder()))
	assert.ErrorIs(t, err, domain.ErrValidation)

	item, err := decodeNews(e.NewContext(jsonRequest(http.MethodPost, "/v1/news", `{"title":"t","body":"b","source_url":"https://example.com/a"}`), httptest.NewRecorder()))
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a", item.SourceURL)
}
