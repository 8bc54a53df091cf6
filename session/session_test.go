package session_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vetcare/vetportal/session"
	sessionTest "github.com/vetcare/vetportal/session/test"
	"go.uber.org/mock/gomock"
)

var _ = Describe("Session", func() {
	var store session.Store

	BeforeEach(func() {
		store = session.NewMemoryStore()
	})

	It("is loaded as it was saved", func() {
		s := session.Session{
			AccessToken:  "access",
			RefreshToken: "refresh",
			Username:     "jane",
			Email:        "jane@example.com",
			Role:         session.RoleCustomer,
		}
		Expect(session.Save(store, s)).To(Succeed())

		loaded, err := session.Load(store)
		Expect(err).ToNot(HaveOccurred())
		Expect(loaded).To(Equal(s))
		Expect(loaded.IsAuthenticated()).To(BeTrue())
	})

	It("replaces the previous session", func() {
		Expect(session.Save(store, session.Session{AccessToken: "a", Email: "old@example.com", Role: session.RoleDoctor})).To(Succeed())
		Expect(session.Save(store, session.Session{AccessToken: "b"})).To(Succeed())

		loaded, err := session.Load(store)
		Expect(err).ToNot(HaveOccurred())
		Expect(loaded).To(Equal(session.Session{AccessToken: "b"}))
	})

	It("ignores unknown roles", func() {
		Expect(store.Set(session.KeyRole, "admin")).To(Succeed())
		role, err := session.CurrentRole(store)
		Expect(err).ToNot(HaveOccurred())
		Expect(role).To(BeEmpty())
	})

	DescribeTable("ParseRole",
		func(value string, expected session.Role) {
			Expect(session.ParseRole(value)).To(Equal(expected))
		},
		Entry("doctor", "doctor", session.RoleDoctor),
		Entry("customer with whitespace", " Customer ", session.RoleCustomer),
		Entry("empty", "", session.Role("")),
		Entry("unknown", "vet", session.Role("")),
	)

	Context("With a failing store", func() {
		var ctrl *gomock.Controller
		var mockStore *sessionTest.MockStore

		BeforeEach(func() {
			ctrl = gomock.NewController(GinkgoT())
			mockStore = sessionTest.NewMockStore(ctrl)
		})

		It("returns read errors", func() {
			mockStore.EXPECT().Get(session.KeyAccessToken).Return("", errors.New("disk failure"))
			_, err := session.Load(mockStore)
			Expect(err).To(MatchError(ContainSubstring("disk failure")))
		})

		It("only persists non-empty values", func() {
			gomock.InOrder(
				mockStore.EXPECT().Clear().Return(nil),
				mockStore.EXPECT().Set(session.KeyAccessToken, "access").Return(nil),
				mockStore.EXPECT().Set(session.KeyRole, "doctor").Return(nil),
			)
			Expect(session.Save(mockStore, session.Session{AccessToken: "access", Role: session.RoleDoctor})).To(Succeed())
		})
	})
})
