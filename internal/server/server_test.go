package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frscan/internal/pipeline"
	"frscan/internal/types"
)

type fakeAnalyzer struct {
	records []types.Record
	err     error
	gotPath string
	gotBody string
	existed bool
}

func (f *fakeAnalyzer) Scan(_ context.Context, path string) ([]types.Record, error) {
	f.gotPath = path
	if b, err := os.ReadFile(path); err == nil {
		f.existed = true
		f.gotBody = string(b)
	}
	return f.records, f.err
}

func uploadRequest(t *testing.T, field, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/scan-upload/", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func newServer(t *testing.T, a Analyzer, max int64) (*Server, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "uploads")
	return New(a, Options{UploadDir: dir, MaxUploadBytes: max, Model: "gpt-4o"}), dir
}

func TestScanUpload_OK(t *testing.T) {
	a := &fakeAnalyzer{records: []types.Record{
		types.EntryRecord(types.EnrichedEntry{
			FileEntry:      types.FileEntry{Filename: "evil.py", Language: "Python", Code: "a < b"},
			StaticFindings: []types.Finding{},
			Danger:         types.VerdictNo,
		}),
	}}
	s, dir := newServer(t, a, 1<<20)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadRequest(t, "file", "../../evil.py", "print('hi')"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a < b")
	var out []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "evil.py", out[0]["filename"])

	assert.True(t, a.existed)
	assert.Equal(t, "print('hi')", a.gotBody)
	assert.Equal(t, "evil.py", filepath.Base(a.gotPath))
	absDir, _ := filepath.Abs(dir)
	absGot, _ := filepath.Abs(a.gotPath)
	assert.True(t, strings.HasPrefix(absGot, absDir+string(filepath.Separator)), "saved under the upload dir")

	left, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, left, "per-request upload dir removed")
}

func TestScanUpload_NoTrailingSlash(t *testing.T) {
	s, _ := newServer(t, &fakeAnalyzer{records: []types.Record{}}, 1<<20)
	req := uploadRequest(t, "file", "a.js", "x")
	req.URL.Path = "/scan-upload"
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestScanUpload_MissingFile(t *testing.T) {
	s, _ := newServer(t, &fakeAnalyzer{}, 1<<20)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadRequest(t, "other", "a.py", "x"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "detail")
}

func TestScanUpload_TooLarge(t *testing.T) {
	s, _ := newServer(t, &fakeAnalyzer{}, 64)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadRequest(t, "file", "big.py", string(bytes.Repeat([]byte("x"), 1024))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestScanUpload_PipelineFailure(t *testing.T) {
	a := &fakeAnalyzer{err: &pipeline.StageError{Stage: pipeline.StageJudge, Err: errors.New("openai: status 401: bad key")}}
	s, _ := newServer(t, a, 1<<20)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, uploadRequest(t, "file", "a.py", "x"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Scan failed: judge: openai: status 401: bad key", body["detail"])
}

func TestHealthz(t *testing.T) {
	s, _ := newServer(t, &fakeAnalyzer{}, 0)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","model":"gpt-4o"}`, rec.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	s, _ := newServer(t, &fakeAnalyzer{}, 0)
	req := httptest.NewRequest(http.MethodOptions, "/scan-upload/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestUploadName(t *testing.T) {
	assert.Equal(t, "a.zip", uploadName("C:\\Users\\me\\a.zip"))
	assert.Equal(t, "x.py", uploadName("../../x.py"))
	assert.Equal(t, "upload", uploadName(""))
	assert.Equal(t, "upload", uploadName(".."))
}
