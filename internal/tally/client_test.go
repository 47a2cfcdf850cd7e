package tally

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestClientExportSuccess(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<ENVELOPE><STOCKITEM/></ENVELOPE>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, testLogger())
	body, err := client.Export(context.Background(), "<ENVELOPE/>", 5*time.Second)
	require.NoError(t, err)
	require.Equal(t, "<ENVELOPE><STOCKITEM/></ENVELOPE>", body)
	require.Equal(t, "text/xml", gotContentType)
}

func TestClientImportContentType(t *testing.T) {
	var gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte("<RESPONSE>1 vouchers created</RESPONSE>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, testLogger())
	_, err := client.Import(context.Background(), "<ENVELOPE/>", 5*time.Second)
	require.NoError(t, err)
	require.Equal(t, "application/xml", gotContentType)
}

func TestClientBusinessErrorOn200(t *testing.T) {
	// the endpoint reports failures as a body marker, never a status code
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("<RESPONSE><LINEERROR>Ledger does not exist</LINEERROR></RESPONSE>"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, testLogger())
	_, err := client.Import(context.Background(), "<ENVELOPE/>", 5*time.Second)
	require.Error(t, err)
	require.True(t, IsBusinessError(err))
	require.False(t, IsTransportError(err))
}

func TestClientTransportErrorOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, nil, testLogger())
	_, err := client.Export(context.Background(), "<ENVELOPE/>", 20*time.Millisecond)
	require.Error(t, err)
	require.True(t, IsTransportError(err))
	require.False(t, IsBusinessError(err))
}

func TestClientTransportErrorOnConnRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client := NewClient(srv.URL, nil, testLogger())
	_, err := client.Export(context.Background(), "<ENVELOPE/>", time.Second)
	require.Error(t, err)
	require.True(t, IsTransportError(err))
}
