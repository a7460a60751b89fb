package notification_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/frahmantamala/employee-management/internal"
	"github.com/frahmantamala/employee-management/internal/notification"
	"github.com/gorilla/websocket"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Hub", func() {
	var (
		hub    *notification.Hub
		cancel context.CancelFunc
		server *httptest.Server
	)

	BeforeEach(func() {
		var ctx context.Context
		ctx, cancel = context.WithCancel(context.Background())
		hub = notification.NewHub(testLogger())
		go hub.Run(ctx)

		handler := notification.NewHandler(hub, nil)
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("user") == "7" {
				r = r.WithContext(internal.ContextWithUser(r.Context(), &internal.User{ID: 7, Role: internal.RoleEmployee}))
			}
			handler.Notifications(w, r)
		}))
	})

	AfterEach(func() {
		server.Close()
		cancel()
	})

	dial := func(query string) (*websocket.Conn, *http.Response, error) {
		url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/notifications?" + query
		return websocket.DefaultDialer.Dial(url, nil)
	}

	It("should push messages to every session of the user", func() {
		first, _, err := dial("user=7")
		Expect(err).NotTo(HaveOccurred())
		defer first.Close()
		second, _, err := dial("user=7")
		Expect(err).NotTo(HaveOccurred())
		defer second.Close()

		Eventually(func() int { return hub.Sessions(7) }).Should(Equal(2))

		hub.SendToUser(7, []byte(`{"type":"leave.approved"}`))
		hub.SendToUser(8, []byte(`{"type":"other"}`))

		for _, conn := range []*websocket.Conn{first, second} {
			Expect(conn.SetReadDeadline(time.Now().Add(2 * time.Second))).To(Succeed())
			_, payload, err := conn.ReadMessage()
			Expect(err).NotTo(HaveOccurred())
			Expect(string(payload)).To(Equal(`{"type":"leave.approved"}`))
		}
	})

	It("should forget closed sessions", func() {
		conn, _, err := dial("user=7")
		Expect(err).NotTo(HaveOccurred())
		Eventually(func() int { return hub.Sessions(7) }).Should(Equal(1))

		Expect(conn.Close()).To(Succeed())
		Eventually(func() int { return hub.Sessions(7) }).Should(BeZero())
	})

	It("should refuse unauthenticated upgrades", func() {
		_, resp, err := dial("user=0")
		Expect(err).To(HaveOccurred())
		Expect(resp).NotTo(BeNil())
		Expect(resp.StatusCode).To(Equal(http.StatusUnauthorized))
	})
})
