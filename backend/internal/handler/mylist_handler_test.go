package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"mylist-service/backend/internal/entity"
	"mylist-service/backend/internal/httpapi/middleware"
	"mylist-service/backend/internal/repo"
)

type stubMyList struct {
	page       *entity.Page
	item       *entity.ListItem
	err        error
	lastUser   string
	lastCursor string
	lastLimit  int
}

var _ repo.MyListRepo = (*stubMyList)(nil)

func (s *stubMyList) GetPage(ctx context.Context, userID, cursor string, limit int) (*entity.Page, error) {
	s.lastUser, s.lastCursor, s.lastLimit = userID, cursor, limit
	return s.page, s.err
}

func (s *stubMyList) Add(ctx context.Context, userID, contentID, contentType string) (*entity.ListItem, error) {
	s.lastUser = userID
	return s.item, s.err
}

func (s *stubMyList) Remove(ctx context.Context, userID, contentID string) error {
	s.lastUser = userID
	return s.err
}

func newTestRouter(stub *stubMyList) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewMyListHandler(stub, 10)
	r := router.Group("/my-list")
	r.Use(middleware.UserMiddleware())
	{
		r.GET("", h.GetMyList())
		r.POST("", h.AddToMyList())
		r.DELETE("/:contentId", h.RemoveFromMyList())
	}
	return router
}

func TestGetMyListRequiresUserHeader(t *testing.T) {
	router := newTestRouter(&stubMyList{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/my-list", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d: %s", w.Code, w.Body.String())
	}
}

func TestGetMyListResponseShape(t *testing.T) {
	cursor := "tok123"
	stub := &stubMyList{page: &entity.Page{
		Items: []entity.ListItem{{ID: 2, UserID: "u1", ContentID: "m1", ContentType: "movie",
			CreatedAt: time.Now().UTC().Truncate(time.Millisecond)}},
		NextCursor: &cursor,
		HasMore:    true,
		Limit:      1,
	}}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/my-list?limit=1&cursor=abc", nil)
	req.Header.Set("x-user-id", "u1")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}
	if stub.lastUser != "u1" || stub.lastCursor != "abc" || stub.lastLimit != 1 {
		t.Fatalf("handler passed wrong args: user=%q cursor=%q limit=%d",
			stub.lastUser, stub.lastCursor, stub.lastLimit)
	}
	var resp struct {
		Items      []entity.ListItem `json:"items"`
		NextCursor *string           `json:"nextCursor"`
		HasMore    bool              `json:"hasMore"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if len(resp.Items) != 1 || !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor != cursor {
		t.Fatalf("wrong response: %+v", resp)
	}
}

func TestGetMyListRejectsBadLimit(t *testing.T) {
	router := newTestRouter(&stubMyList{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/my-list?limit=abc", nil)
	req.Header.Set("x-user-id", "u1")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", w.Code)
	}
}

// 业务错误映射：游标坏了 400，内容不合法 400，其余后端故障 503
func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
		code string
	}{
		{repo.ErrInvalidCursor, http.StatusBadRequest, "INVALID_CURSOR"},
		{repo.ErrInvalidContent, http.StatusBadRequest, "INVALID_CONTENT"},
		{context.DeadlineExceeded, http.StatusServiceUnavailable, "STORE_UNAVAILABLE"},
	}
	for _, tc := range cases {
		router := newTestRouter(&stubMyList{err: tc.err})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/my-list", nil)
		req.Header.Set("x-user-id", "u1")
		router.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Fatalf("err %v: want %d, got %d", tc.err, tc.want, w.Code)
		}
		var resp struct {
			Code string `json:"code"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if resp.Code != tc.code {
			t.Fatalf("err %v: want code %s, got %s", tc.err, tc.code, resp.Code)
		}
	}
}

func TestAddToMyList(t *testing.T) {
	stub := &stubMyList{item: &entity.ListItem{ID: 1, UserID: "u1", ContentID: "m1", ContentType: "movie"}}
	router := newTestRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/my-list",
		strings.NewReader(`{"contentId":"m1","contentType":"movie"}`))
	req.Header.Set("x-user-id", "u1")
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}

	// body 缺字段
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/my-list", strings.NewReader(`{"contentId":"m1"}`))
	req.Header.Set("x-user-id", "u1")
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("missing contentType: want 400, got %d", w.Code)
	}
}

func TestRemoveFromMyList(t *testing.T) {
	router := newTestRouter(&stubMyList{})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/my-list/m1", nil)
	req.Header.Set("x-user-id", "u1")
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("want 200, got %d: %s", w.Code, w.Body.String())
	}
}
