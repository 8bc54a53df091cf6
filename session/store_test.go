package session_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/vetcare/vetportal/session"
)

var _ = Describe("Store", func() {
	behavesLikeStore := func(newStore func() session.Store) {
		var store session.Store

		BeforeEach(func() {
			store = newStore()
		})

		It("returns an empty value for missing keys", func() {
			value, err := store.Get(session.KeyAccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(value).To(BeEmpty())
		})

		It("returns the stored value", func() {
			Expect(store.Set(session.KeyAccessToken, "token")).To(Succeed())
			value, err := store.Get(session.KeyAccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(value).To(Equal("token"))
		})

		It("overwrites values", func() {
			Expect(store.Set(session.KeyAccessToken, "first")).To(Succeed())
			Expect(store.Set(session.KeyAccessToken, "second")).To(Succeed())
			value, err := store.Get(session.KeyAccessToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(value).To(Equal("second"))
		})

		It("removes every session key on clear", func() {
			for _, key := range session.Keys {
				Expect(store.Set(key, "value")).To(Succeed())
			}
			Expect(store.Clear()).To(Succeed())
			for _, key := range session.Keys {
				value, err := store.Get(key)
				Expect(err).ToNot(HaveOccurred())
				Expect(value).To(BeEmpty())
			}
		})

		It("can be cleared when empty", func() {
			Expect(store.Clear()).To(Succeed())
		})
	}

	Describe("Memory", func() {
		behavesLikeStore(session.NewMemoryStore)
	})

	Describe("Disk", func() {
		var dir string

		BeforeEach(func() {
			dir = filepath.Join(GinkgoT().TempDir(), "session")
		})

		behavesLikeStore(func() session.Store {
			store, err := session.NewDiskStore(dir)
			Expect(err).ToNot(HaveOccurred())
			return store
		})

		It("persists values across instances", func() {
			store, err := session.NewDiskStore(dir)
			Expect(err).ToNot(HaveOccurred())
			Expect(store.Set(session.KeyRefreshToken, "refresh")).To(Succeed())

			reopened, err := session.NewDiskStore(dir)
			Expect(err).ToNot(HaveOccurred())
			value, err := reopened.Get(session.KeyRefreshToken)
			Expect(err).ToNot(HaveOccurred())
			Expect(value).To(Equal("refresh"))
		})

		It("creates the directory with restricted permissions", func() {
			_, err := session.NewDiskStore(dir)
			Expect(err).ToNot(HaveOccurred())
			info, err := os.Stat(dir)
			Expect(err).ToNot(HaveOccurred())
			Expect(info.IsDir()).To(BeTrue())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0700)))
		})

		It("requires a directory", func() {
			_, err := session.NewDiskStore("")
			Expect(err).To(HaveOccurred())
		})
	})
})
