package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modelcast/pkg/types"
)

func newTestDiscoveryService(t *testing.T) *ModelDiscoveryService {
	t.Helper()

	httpService := NewHTTPRequestService()
	require.NoError(t, httpService.Initialize())

	discovery := NewModelDiscoveryService(httpService)
	require.NoError(t, discovery.Initialize())
	return discovery
}

func specForServer(server *httptest.Server) types.ProviderSpec {
	return types.ProviderSpec{
		Name:               "testprovider",
		BaseURL:            server.URL,
		ModelsEndpoint:     "/models",
		ModelsResponsePath: "data",
		ModelIDKey:         "id",
		AuthRequired:       true,
		AuthHeaderPrefix:   "Bearer",
	}
}

func TestModelDiscoveryService_Name(t *testing.T) {
	discovery := NewModelDiscoveryService(NewHTTPRequestService())
	assert.Equal(t, "model_discovery", discovery.Name())
}

func TestModelDiscoveryService_InitializeRequiresHTTPService(t *testing.T) {
	discovery := NewModelDiscoveryService(nil)
	err := discovery.Initialize()
	assert.Error(t, err)
}

func TestModelDiscoveryService_FetchModelsNotInitialized(t *testing.T) {
	discovery := NewModelDiscoveryService(NewHTTPRequestService())
	_, err := discovery.FetchModels(context.Background(), types.ProviderSpec{Name: "x"}, "key")
	assert.ErrorContains(t, err, "not initialized")
}

func TestModelDiscoveryService_FetchModelsPreservesOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"gpt-5"},{"id":"gpt-5-mini"},{"id":"gpt-4.1"}]}`))
	}))
	defer server.Close()

	discovery := newTestDiscoveryService(t)
	models, err := discovery.FetchModels(context.Background(), specForServer(server), "test-key")

	require.NoError(t, err)
	assert.Equal(t, []string{"gpt-5", "gpt-5-mini", "gpt-4.1"}, models)
}

func TestModelDiscoveryService_FetchModelsSendsAuthHeader(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data":[{"id":"m1"}]}`))
	}))
	defer server.Close()

	discovery := newTestDiscoveryService(t)
	_, err := discovery.FetchModels(context.Background(), specForServer(server), "sk-test")

	require.NoError(t, err)
	assert.Equal(t, "Bearer sk-test", gotAuth)
}

func TestModelDiscoveryService_FetchModelsCustomAuthHeader(t *testing.T) {
	var gotAPIKey, gotVersion, gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAPIKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data":[{"id":"claude-sonnet-4-5"}]}`))
	}))
	defer server.Close()

	spec := specForServer(server)
	spec.AuthHeader = "x-api-key"
	spec.AuthHeaderPrefix = ""
	spec.Headers = map[string]string{"anthropic-version": "2023-06-01"}

	discovery := newTestDiscoveryService(t)
	_, err := discovery.FetchModels(context.Background(), spec, "sk-ant-test")

	require.NoError(t, err)
	assert.Equal(t, "sk-ant-test", gotAPIKey, "credential should be sent verbatim without prefix")
	assert.Equal(t, "2023-06-01", gotVersion)
	assert.Empty(t, gotAuth)
}

func TestModelDiscoveryService_NoAuthHeaderWhenAuthNotRequired(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"data":[{"id":"llama3"}]}`))
	}))
	defer server.Close()

	spec := specForServer(server)
	spec.AuthRequired = false

	discovery := newTestDiscoveryService(t)
	// A credential is supplied but must not be sent.
	models, err := discovery.FetchModels(context.Background(), spec, "stray-credential")

	require.NoError(t, err)
	assert.Equal(t, []string{"llama3"}, models)
	assert.Empty(t, gotAuth)
}

func TestModelDiscoveryService_MissingCredentialBeforeNetwork(t *testing.T) {
	requestCount := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requestCount++
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	defer server.Close()

	discovery := newTestDiscoveryService(t)
	_, err := discovery.FetchModels(context.Background(), specForServer(server), "")

	var credErr types.MissingCredentialError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, "testprovider", credErr.Provider)
	assert.Zero(t, requestCount, "no request should be made without a credential")
}

func TestModelDiscoveryService_HTTPErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer server.Close()

	discovery := newTestDiscoveryService(t)
	_, err := discovery.FetchModels(context.Background(), specForServer(server), "bad-key")

	var reqErr types.ProviderRequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusUnauthorized, reqErr.StatusCode)
	assert.Equal(t, "testprovider", reqErr.Provider)
}

func TestModelDiscoveryService_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	server.Close() // connection refused from here on

	discovery := newTestDiscoveryService(t)
	_, err := discovery.FetchModels(context.Background(), specForServer(server), "key")

	var reqErr types.ProviderRequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Zero(t, reqErr.StatusCode)
	assert.Error(t, errors.Unwrap(reqErr))
}

func TestModelDiscoveryService_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>not json</html>`))
	}))
	defer server.Close()

	discovery := newTestDiscoveryService(t)
	_, err := discovery.FetchModels(context.Background(), specForServer(server), "key")

	var respErr types.ProviderResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Contains(t, respErr.Message, "not valid JSON")
}

func TestModelDiscoveryService_ResponsePaths(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		modelIDKey string
		body       string
		want       []string
	}{
		{
			name:       "nested path",
			path:       "result.models",
			modelIDKey: "id",
			body:       `{"result":{"models":[{"id":"a"},{"id":"b"}]}}`,
			want:       []string{"a", "b"},
		},
		{
			name:       "empty path means body is the list",
			path:       "",
			modelIDKey: "id",
			body:       `[{"id":"x"},{"id":"y"}]`,
			want:       []string{"x", "y"},
		},
		{
			name:       "alternate id key",
			path:       "models",
			modelIDKey: "name",
			body:       `{"models":[{"name":"models/gemini-2.5-pro"},{"name":"models/gemini-2.5-flash"}]}`,
			want:       []string{"models/gemini-2.5-pro", "models/gemini-2.5-flash"},
		},
		{
			name:       "entries missing the id field are skipped",
			path:       "data",
			modelIDKey: "id",
			body:       `{"data":[{"id":"keep"},{"object":"model"},{"id":""},{"id":"also-keep"},"stray"]}`,
			want:       []string{"keep", "also-keep"},
		},
		{
			name:       "duplicate ids are preserved",
			path:       "data",
			modelIDKey: "id",
			body:       `{"data":[{"id":"m"},{"id":"m"}]}`,
			want:       []string{"m", "m"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			spec := specForServer(server)
			spec.ModelsResponsePath = tt.path
			spec.ModelIDKey = tt.modelIDKey

			discovery := newTestDiscoveryService(t)
			models, err := discovery.FetchModels(context.Background(), spec, "key")

			require.NoError(t, err)
			assert.Equal(t, tt.want, models)
		})
	}
}

func TestModelDiscoveryService_ResponsePathErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{
			name: "path key missing",
			path: "data",
			body: `{"models":[{"id":"a"}]}`,
		},
		{
			name: "path lands on non-list",
			path: "data",
			body: `{"data":{"id":"a"}}`,
		},
		{
			name: "cannot descend through scalar",
			path: "result.models",
			body: `{"result":"nope"}`,
		},
		{
			name: "body is scalar with empty path",
			path: "",
			body: `"just a string"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			spec := specForServer(server)
			spec.ModelsResponsePath = tt.path

			discovery := newTestDiscoveryService(t)
			_, err := discovery.FetchModels(context.Background(), spec, "key")

			var respErr types.ProviderResponseError
			require.ErrorAs(t, err, &respErr)
			assert.Equal(t, "testprovider", respErr.Provider)
		})
	}
}

func TestModelDiscoveryService_NoModelsFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"object":"model"},{"object":"model"}]}`))
	}))
	defer server.Close()

	discovery := newTestDiscoveryService(t)
	_, err := discovery.FetchModels(context.Background(), specForServer(server), "key")

	var respErr types.ProviderResponseError
	require.ErrorAs(t, err, &respErr)
	assert.Contains(t, respErr.Message, "no models found")
}

func TestModelDiscoveryService_AcceptHeaderAlwaysSent(t *testing.T) {
	var gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"data":[{"id":"m1"}]}`))
	}))
	defer server.Close()

	discovery := newTestDiscoveryService(t)
	_, err := discovery.FetchModels(context.Background(), specForServer(server), "key")

	require.NoError(t, err)
	assert.Equal(t, "application/json", gotAccept)
}
