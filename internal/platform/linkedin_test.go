package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLinkedInPostWithoutCredentialIsManual(t *testing.T) {
	a := NewLinkedInAdapter(&staticResolver{}, "", 100)

	res := a.Post(context.Background(), samplePayload())
	require.True(t, res.Success)
	require.Equal(t, "manual:j1", res.ExternalID)
}

func TestLinkedInManualPrefixedOpsAreNoops(t *testing.T) {
	a := NewLinkedInAdapter(&staticResolver{}, "", 100)
	ctx := context.Background()

	res := a.Update(ctx, samplePayload(), "manual:j1")
	require.True(t, res.Success)
	require.Equal(t, "manual:j1", res.ExternalID)

	res = a.Remove(ctx, "manual:j1")
	require.True(t, res.Success)
}

func TestLinkedInPostWithCredential(t *testing.T) {
	var got linkedInPosting
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/simpleJobPostings", r.URL.Path)
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"id":"li-9"}`))
	}))
	defer srv.Close()

	a := NewLinkedInAdapter(&staticResolver{cred: &Credential{AccessToken: "tok"}}, srv.URL, 100)
	res := a.Post(context.Background(), samplePayload())

	require.True(t, res.Success)
	require.Equal(t, "li-9", res.ExternalID)
	require.Equal(t, "REMOTE", got.WorkplaceType)
	require.Equal(t, "FULL_TIME", got.EmploymentType)
	// 薪酬为嵌套对象
	require.NotNil(t, got.Compensation)
	require.Equal(t, "EUR", got.Compensation.Currency)
	require.Equal(t, int64(120000), got.Compensation.MaxAmount)
	require.Equal(t, "j1", got.ExternalJobID)
}

func TestLinkedInUpdateNon2xxSurfacesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"invalid workplaceType"}`))
	}))
	defer srv.Close()

	a := NewLinkedInAdapter(&staticResolver{cred: &Credential{AccessToken: "tok"}}, srv.URL, 100)
	res := a.Update(context.Background(), samplePayload(), "li-9")

	require.False(t, res.Success)
	require.Contains(t, res.Error, "422")
	require.Contains(t, res.Error, "invalid workplaceType")
}

func TestLinkedInRemoveWithCredential(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/simpleJobPostings/li-9", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	resolver := &staticResolver{cred: &Credential{AccessToken: "tok"}}
	a := NewLinkedInAdapter(resolver, srv.URL, 100)
	res := a.Remove(context.Background(), "li-9")

	require.True(t, res.Success)
	require.Equal(t, 1, resolver.globalCalls)
}
