package lastfm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestUserService_GetInfo(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("failed to parse form: %v", err)
		}
		if method := r.FormValue("method"); method != "user.getInfo" {
			t.Errorf("expected method user.getInfo, got %s", method)
		}
		if sk := r.FormValue("sk"); sk != "sess" {
			t.Errorf("expected sk sess, got %s", sk)
		}
		_, _ = w.Write([]byte(`{"user":{
			"url":"https://www.last.fm/user/victor",
			"image":[
				{"size":"small","#text":"https://img.example/s.png"},
				{"size":"medium","#text":"https://img.example/m.png"}
			]
		}}`))
	})

	info, err := client.User().GetInfo(context.Background(), "sess")
	if err != nil {
		t.Fatalf("GetInfo: %v", err)
	}
	if info.URL != "https://www.last.fm/user/victor" {
		t.Errorf("unexpected profile URL %q", info.URL)
	}
	if len(info.Images) != 2 || info.Images[1].Size != "medium" {
		t.Errorf("unexpected images %+v", info.Images)
	}
	if info.Images[1].URL != "https://img.example/m.png" {
		t.Errorf("unexpected image URL %q", info.Images[1].URL)
	}
}

func TestUserService_GetInfo_MissingUser(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := client.User().GetInfo(context.Background(), "sess")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if _, ok := err.(*MissingFieldError); !ok {
		t.Errorf("expected *MissingFieldError, got %T", err)
	}
}

func TestUserService_GetImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.png" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("png-bytes"))
	}))
	defer server.Close()

	client, err := NewClient(Config{APIKey: "k", APISecret: "s"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	t.Run("success", func(t *testing.T) {
		data, err := client.User().GetImage(context.Background(), server.URL+"/avatar.png")
		if err != nil {
			t.Fatalf("GetImage: %v", err)
		}
		if string(data) != "png-bytes" {
			t.Errorf("unexpected image bytes %q", data)
		}
	})

	t.Run("non-200 degrades to nil", func(t *testing.T) {
		data, err := client.User().GetImage(context.Background(), server.URL+"/missing.png")
		if err != nil {
			t.Fatalf("GetImage: %v", err)
		}
		if data != nil {
			t.Errorf("expected nil bytes, got %q", data)
		}
	})

	t.Run("empty url", func(t *testing.T) {
		data, err := client.User().GetImage(context.Background(), "")
		if err != nil || data != nil {
			t.Errorf("expected nil, nil for empty URL, got %v, %v", data, err)
		}
	})
}
