package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kozaktomas/group-memory/internal/blob"
	"github.com/kozaktomas/group-memory/internal/database"
	"github.com/kozaktomas/group-memory/internal/database/mock"
)

func newGroupsHandler() (*GroupsHandler, *mock.MockGroupStore) {
	store := mock.NewMockGroupStore()
	return NewGroupsHandler(store, blob.NewInlineStore()), store
}

func TestGroupsHandler_List(t *testing.T) {
	handler, store := newGroupsHandler()
	store.SeedGroup("First", blob.EncodeDataURL(pngBytes, "image/png"), database.Member{Name: "Ren"})
	store.SeedGroup("Second", "https://cdn.example.com/second.png")

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/api/v1/groups", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "application/json")

	var result []GroupResponse
	parseJSONResponse(t, recorder, &result)
	if len(result) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(result))
	}
	if result[0].Name != "Second" || result[1].Name != "First" {
		t.Errorf("expected newest first, got %s, %s", result[0].Name, result[1].Name)
	}
	if result[1].MemberCount != 1 {
		t.Errorf("expected member count 1, got %d", result[1].MemberCount)
	}
	if !strings.HasSuffix(result[1].ImageURL, "/image") {
		t.Errorf("expected inline image to be served by endpoint, got %s", result[1].ImageURL)
	}
}

func TestGroupsHandler_List_Empty(t *testing.T) {
	handler, _ := newGroupsHandler()

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/api/v1/groups", nil))

	assertStatusCode(t, recorder, http.StatusOK)
	if body := strings.TrimSpace(recorder.Body.String()); body != "[]" {
		t.Errorf("expected empty list, got %s", body)
	}
}

func TestGroupsHandler_List_StoreError(t *testing.T) {
	handler, store := newGroupsHandler()
	store.ListGroupsError = errors.New("connection reset")

	recorder := httptest.NewRecorder()
	handler.List(recorder, httptest.NewRequest("GET", "/api/v1/groups", nil))

	assertStatusCode(t, recorder, http.StatusInternalServerError)
	assertJSONError(t, recorder, "failed to list groups")
}

func TestGroupsHandler_Create(t *testing.T) {
	handler, store := newGroupsHandler()

	req := multipartRequest(t, "POST", "/api/v1/groups",
		map[string]string{"name": "  Hiking Club  "},
		formFile{field: "image", filename: "club.png", contentType: "image/png", data: pngBytes},
	)
	recorder := httptest.NewRecorder()
	handler.Create(recorder, req)

	assertStatusCode(t, recorder, http.StatusCreated)

	var result GroupDetailResponse
	parseJSONResponse(t, recorder, &result)
	if result.Name != "Hiking Club" {
		t.Errorf("expected trimmed name, got %q", result.Name)
	}
	if result.ID == "" {
		t.Error("expected group id")
	}
	if len(result.Members) != 0 {
		t.Errorf("expected no members, got %d", len(result.Members))
	}

	stored, _ := store.GetGroup(req.Context(), result.ID)
	if stored == nil {
		t.Fatal("expected group to be stored")
	}
	obj, err := blob.ParseDataURL(stored.ImageURL)
	if err != nil {
		t.Fatalf("expected stored data URL: %v", err)
	}
	if !bytes.Equal(obj.Data, pngBytes) || obj.ContentType != "image/png" {
		t.Errorf("stored photo does not match upload: %s", obj.ContentType)
	}
}

func TestGroupsHandler_Create_SniffsContentType(t *testing.T) {
	handler, store := newGroupsHandler()

	req := multipartRequest(t, "POST", "/api/v1/groups",
		map[string]string{"name": "Band"},
		formFile{field: "image", filename: "band", contentType: "application/octet-stream", data: pngBytes},
	)
	recorder := httptest.NewRecorder()
	handler.Create(recorder, req)

	assertStatusCode(t, recorder, http.StatusCreated)

	var result GroupDetailResponse
	parseJSONResponse(t, recorder, &result)
	stored, _ := store.GetGroup(req.Context(), result.ID)
	if !strings.HasPrefix(stored.ImageURL, "data:image/png;base64,") {
		t.Errorf("expected sniffed png, got %.40s", stored.ImageURL)
	}
}

func TestGroupsHandler_Create_Validation(t *testing.T) {
	photo := formFile{field: "image", filename: "a.png", contentType: "image/png", data: pngBytes}

	tests := []struct {
		name    string
		fields  map[string]string
		files   []formFile
		wantErr string
	}{
		{"missing name", map[string]string{}, []formFile{photo}, "name is required"},
		{"blank name", map[string]string{"name": "   "}, []formFile{photo}, "name is required"},
		{"name too long", map[string]string{"name": strings.Repeat("a", 256)}, []formFile{photo}, "name is too long"},
		{"missing image", map[string]string{"name": "Band"}, nil, "image is required"},
		{"empty image", map[string]string{"name": "Band"},
			[]formFile{{field: "image", filename: "a.png", contentType: "image/png"}}, "image is required"},
		{"not an image", map[string]string{"name": "Band"},
			[]formFile{{field: "image", filename: "a.txt", contentType: "text/plain", data: []byte("hello world")}},
			"image must be an image file"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler, store := newGroupsHandler()

			recorder := httptest.NewRecorder()
			handler.Create(recorder, multipartRequest(t, "POST", "/api/v1/groups", tc.fields, tc.files...))

			assertStatusCode(t, recorder, http.StatusBadRequest)
			assertJSONError(t, recorder, tc.wantErr)

			groups, _ := store.ListGroups(t.Context())
			if len(groups) != 0 {
				t.Errorf("expected no group to be created, got %d", len(groups))
			}
		})
	}
}

func TestGroupsHandler_Create_NotMultipart(t *testing.T) {
	handler, _ := newGroupsHandler()

	req := httptest.NewRequest("POST", "/api/v1/groups", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	handler.Create(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadRequest)
	assertJSONError(t, recorder, "failed to parse multipart form")
}

func TestGroupsHandler_Create_StoreError(t *testing.T) {
	handler, store := newGroupsHandler()
	store.CreateGroupError = errors.New("disk full")

	req := multipartRequest(t, "POST", "/api/v1/groups",
		map[string]string{"name": "Band"},
		formFile{field: "image", filename: "a.png", contentType: "image/png", data: pngBytes},
	)
	recorder := httptest.NewRecorder()
	handler.Create(recorder, req)

	assertStatusCode(t, recorder, http.StatusInternalServerError)
	assertJSONError(t, recorder, "failed to create group")
}

func TestGroupsHandler_Get(t *testing.T) {
	handler, store := newGroupsHandler()
	g := store.SeedGroup("Band", "https://cdn.example.com/band.png",
		database.Member{Name: "Ren", Description: "drums"},
		database.Member{Name: "Sora"},
	)

	req := requestWithChiParams(httptest.NewRequest("GET", "/api/v1/groups/"+g.ID, nil), map[string]string{"id": g.ID})
	recorder := httptest.NewRecorder()
	handler.Get(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)

	var result GroupDetailResponse
	parseJSONResponse(t, recorder, &result)
	if result.MemberCount != 2 || len(result.Members) != 2 {
		t.Fatalf("expected 2 members, got %d", len(result.Members))
	}
	if result.Members[0].Name != "Ren" || result.Members[0].Description != "drums" {
		t.Errorf("unexpected first member %+v", result.Members[0])
	}
}

func TestGroupsHandler_Get_NotFound(t *testing.T) {
	handler, _ := newGroupsHandler()

	req := requestWithChiParams(httptest.NewRequest("GET", "/api/v1/groups/nope", nil), map[string]string{"id": "nope"})
	recorder := httptest.NewRecorder()
	handler.Get(recorder, req)

	assertStatusCode(t, recorder, http.StatusNotFound)
	assertJSONError(t, recorder, "group not found")
}

func TestGroupsHandler_Get_StoreError(t *testing.T) {
	handler, store := newGroupsHandler()
	store.GetGroupError = errors.New("timeout")

	req := requestWithChiParams(httptest.NewRequest("GET", "/api/v1/groups/g", nil), map[string]string{"id": "g"})
	recorder := httptest.NewRecorder()
	handler.Get(recorder, req)

	assertStatusCode(t, recorder, http.StatusInternalServerError)
}

func TestGroupsHandler_Image(t *testing.T) {
	handler, store := newGroupsHandler()
	g := store.SeedGroup("Band", blob.EncodeDataURL(pngBytes, "image/png"))

	req := requestWithChiParams(httptest.NewRequest("GET", "/api/v1/groups/"+g.ID+"/image", nil), map[string]string{"id": g.ID})
	recorder := httptest.NewRecorder()
	handler.Image(recorder, req)

	assertStatusCode(t, recorder, http.StatusOK)
	assertContentType(t, recorder, "image/png")
	if !bytes.Equal(recorder.Body.Bytes(), pngBytes) {
		t.Error("expected photo bytes in body")
	}
}

func TestGroupsHandler_Image_Corrupt(t *testing.T) {
	handler, store := newGroupsHandler()
	g := store.SeedGroup("Broken", "data:image/png;base64,AAAA,BBBB")

	req := requestWithChiParams(httptest.NewRequest("GET", "/api/v1/groups/"+g.ID+"/image", nil), map[string]string{"id": g.ID})
	recorder := httptest.NewRecorder()
	handler.Image(recorder, req)

	assertStatusCode(t, recorder, http.StatusBadGateway)
	assertJSONError(t, recorder, "group image unavailable")
}
