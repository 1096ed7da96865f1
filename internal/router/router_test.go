package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pura-pata/internal/router"
)

type dogJSON struct {
	ID          string  `json:"id"`
	PublisherID string  `json:"publisher_id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	AdoptedAt   *string `json:"adopted_at"`
}

type historyJSON struct {
	OldStatus *string `json:"old_status"`
	NewStatus string  `json:"new_status"`
}

func TestHTTP_EndToEnd_AdoptionLifecycle(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "publisher-1"
	otherID := "intruder-1"

	// 1) Publicador crea un perro en San José
	dog := createDog(t, ts.URL, ownerID, dogPayload("Firulais", "San José", 9.9281, -84.0907))
	if dog.Status != "available" {
		t.Fatalf("expected available on create, got %s", dog.Status)
	}
	if dog.AdoptedAt != nil {
		t.Fatalf("expected no adopted_at on create")
	}

	// 2) Otro usuario NO puede cambiar el estado
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/api/v1/dogs/"+dog.ID+"/status", otherID, map[string]any{"status": "reserved"})
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for non-owner, got %d", st)
		}
	}

	// 3) Estado desconocido => 400
	{
		st, _ := doReq(t, ts.URL, "PATCH", "/api/v1/dogs/"+dog.ID+"/status", ownerID, map[string]any{"status": "sold"})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown status, got %d", st)
		}
	}

	// 4) available -> reserved -> adopted
	setStatus(t, ts.URL, ownerID, dog.ID, "reserved")
	adopted := setStatus(t, ts.URL, ownerID, dog.ID, "adopted")
	if adopted.AdoptedAt == nil {
		t.Fatalf("expected adopted_at after adoption")
	}

	// 5) Historial: 3 entradas, la más reciente primero
	{
		st, body := doReq(t, ts.URL, "GET", "/api/v1/dogs/"+dog.ID+"/history", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 history, got %d body=%s", st, string(body))
		}
		var entries []historyJSON
		_ = json.Unmarshal(body, &entries)
		if len(entries) != 3 {
			t.Fatalf("expected 3 history entries, got %d body=%s", len(entries), string(body))
		}
		want := []string{"adopted", "reserved", "available"}
		for i, e := range entries {
			if e.NewStatus != want[i] {
				t.Fatalf("entry %d: expected %s, got %s", i, want[i], e.NewStatus)
			}
		}
		if entries[2].OldStatus != nil {
			t.Fatalf("expected null old_status on creation entry")
		}
		if entries[0].OldStatus == nil || *entries[0].OldStatus != "reserved" {
			t.Fatalf("expected reserved -> adopted, got %v", entries[0].OldStatus)
		}
	}

	// 6) Volver a available y re-adoptar no cambia adopted_at
	setStatus(t, ts.URL, ownerID, dog.ID, "available")
	again := setStatus(t, ts.URL, ownerID, dog.ID, "adopted")
	if again.AdoptedAt == nil || *again.AdoptedAt != *adopted.AdoptedAt {
		t.Fatalf("expected adopted_at to keep first adoption time")
	}

	// 7) El perfil del publicador se creó al publicar
	{
		st, body := doReq(t, ts.URL, "GET", "/api/v1/users/"+ownerID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 publisher profile, got %d body=%s", st, string(body))
		}
	}

	// 8) Otro usuario no puede borrar; el dueño sí
	{
		st, _ := doReq(t, ts.URL, "DELETE", "/api/v1/dogs/"+dog.ID, otherID, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 delete by non-owner, got %d", st)
		}
	}
	{
		st, body := doReq(t, ts.URL, "DELETE", "/api/v1/dogs/"+dog.ID, ownerID, nil)
		if st != http.StatusNoContent {
			t.Fatalf("expected 204 delete, got %d body=%s", st, string(body))
		}
	}

	// 9) Sin perro no hay historial
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/v1/dogs/"+dog.ID+"/history", "", nil)
		if st != http.StatusNotFound {
			t.Fatalf("expected 404 history after delete, got %d", st)
		}
	}
}

func TestHTTP_NearbyAndFilters(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	ownerID := "publisher-1"

	sj := createDog(t, ts.URL, ownerID, dogPayload("Luna", "San José", 9.9281, -84.0907))
	heredia := createDog(t, ts.URL, ownerID, dogPayload("Toby", "Heredia", 10.0024, -84.1165))
	limon := createDog(t, ts.URL, ownerID, dogPayload("Canela", "Limón", 9.9907, -83.0360))
	reserved := createDog(t, ts.URL, ownerID, dogPayload("Rocky", "San José", 9.9300, -84.0800))
	setStatus(t, ts.URL, ownerID, reserved.ID, "reserved")

	// Radio 20 km desde San José: Luna y Toby; Canela está a ~115 km y Rocky está reservado.
	{
		st, body := doReq(t, ts.URL, "GET", "/api/v1/dogs/nearby?latitude=9.9281&longitude=-84.0907&radius=20", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 nearby, got %d body=%s", st, string(body))
		}
		got := idSet(t, body)
		if len(got) != 2 || !got[sj.ID] || !got[heredia.ID] {
			t.Fatalf("unexpected nearby result: %s", string(body))
		}
		if got[limon.ID] || got[reserved.ID] {
			t.Fatalf("nearby must exclude far and non-available dogs")
		}
	}

	// Radio por defecto (50 km) sigue sin alcanzar Limón
	{
		st, body := doReq(t, ts.URL, "GET", "/api/v1/dogs/nearby?latitude=9.9281&longitude=-84.0907", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 nearby, got %d", st)
		}
		if idSet(t, body)[limon.ID] {
			t.Fatalf("default radius should not reach Limón")
		}
	}

	// Coordenadas inválidas
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/v1/dogs/nearby?latitude=95&longitude=-84", "", nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for latitude out of range, got %d", st)
		}
	}

	// Filtros AND
	{
		st, body := doReq(t, ts.URL, "GET", "/api/v1/dogs?status=available&province=San%20Jos%C3%A9", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list, got %d body=%s", st, string(body))
		}
		got := idSet(t, body)
		if len(got) != 1 || !got[sj.ID] {
			t.Fatalf("unexpected filtered list: %s", string(body))
		}
	}
	{
		st, _ := doReq(t, ts.URL, "GET", "/api/v1/dogs?status=sold", "", nil)
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 for unknown status filter, got %d", st)
		}
	}

	// Paginación
	{
		st, body := doReq(t, ts.URL, "GET", "/api/v1/dogs?skip=1&limit=2", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 paginated list, got %d", st)
		}
		if n := len(idSet(t, body)); n != 2 {
			t.Fatalf("expected 2 dogs in page, got %d", n)
		}
	}

	// Mis publicaciones
	{
		st, body := doReq(t, ts.URL, "GET", "/api/v1/dogs/me", ownerID, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 my dogs, got %d", st)
		}
		if n := len(idSet(t, body)); n != 4 {
			t.Fatalf("expected 4 own dogs, got %d", n)
		}
	}
}

func TestHTTP_RequiresIdentity(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	st, _ := doReq(t, ts.URL, "POST", "/api/v1/dogs", "", dogPayload("Firulais", "San José", 9.9, -84.0))
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 without identity, got %d", st)
	}

	st, _ = doReq(t, ts.URL, "GET", "/api/v1/users/me", "", nil)
	if st != http.StatusUnauthorized {
		t.Fatalf("expected 401 on /users/me without identity, got %d", st)
	}
}

func TestHTTP_PhotoUploadDisabledWithoutStorage(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{AuthVerifier: nil}))
	defer ts.Close()

	st, _ := doReq(t, ts.URL, "POST", "/api/v1/dogs/photos/upload-url", "publisher-1", map[string]any{"content_type": "image/jpeg"})
	if st != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 without storage, got %d", st)
	}
}

func TestHTTP_HealthAndDocs(t *testing.T) {
	ts := httptest.NewServer(router.NewRouter(router.Options{}))
	defer ts.Close()

	st, body := doReq(t, ts.URL, "GET", "/health", "", nil)
	if st != http.StatusOK || string(body) != "ok" {
		t.Fatalf("expected 200 ok, got %d %s", st, string(body))
	}

	st, _ = doReq(t, ts.URL, "GET", "/swagger/doc.json", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 swagger doc, got %d", st)
	}
}

func dogPayload(name, province string, lat, lon float64) map[string]any {
	return map[string]any{
		"name":       name,
		"breed":      "Zaguate",
		"size":       "medium",
		"gender":     "female",
		"age_years":  2,
		"vaccinated": true,
		"latitude":   lat,
		"longitude":  lon,
		"province":   province,
		"photos":     []string{"https://cdn.example/" + name + ".jpg"},
	}
}

func createDog(t *testing.T, baseURL, userID string, payload map[string]any) dogJSON {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/api/v1/dogs", userID, payload)
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create dog, got %d body=%s", st, string(body))
	}

	var resp dogJSON
	_ = json.Unmarshal(body, &resp)
	if resp.ID == "" {
		t.Fatalf("create dog: missing id body=%s", string(body))
	}
	return resp
}

func setStatus(t *testing.T, baseURL, userID, dogID, status string) dogJSON {
	t.Helper()

	st, body := doReq(t, baseURL, "PATCH", "/api/v1/dogs/"+dogID+"/status", userID, map[string]any{"status": status})
	if st != http.StatusOK {
		t.Fatalf("expected 200 set status %s, got %d body=%s", status, st, string(body))
	}

	var resp dogJSON
	_ = json.Unmarshal(body, &resp)
	if resp.Status != status {
		t.Fatalf("expected status %s, got %s", status, resp.Status)
	}
	return resp
}

func idSet(t *testing.T, body []byte) map[string]bool {
	t.Helper()

	var items []dogJSON
	if err := json.Unmarshal(body, &items); err != nil {
		t.Fatalf("decode list: %v body=%s", err, string(body))
	}
	out := make(map[string]bool, len(items))
	for _, d := range items {
		out[d.ID] = true
	}
	return out
}

func doReq(t *testing.T, baseURL, method, path, debugUserID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if debugUserID != "" {
		req.Header.Set("X-Debug-User-ID", debugUserID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
