// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Folio Contributors

package contact_test

import (
	"context"
	"errors"
	"sync"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention
	"github.com/samber/oops"

	"github.com/foliohq/folio/internal/contact"
)

// memoryRepo is an in-memory contact.Repository for service specs.
type memoryRepo struct {
	mu        sync.Mutex
	subs      []*contact.Submission
	createErr error
	listErr   error
}

func (r *memoryRepo) Create(_ context.Context, sub *contact.Submission) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append([]*contact.Submission{sub}, r.subs...)
	return nil
}

func (r *memoryRepo) List(_ context.Context, limit int) ([]*contact.Submission, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit > len(r.subs) {
		limit = len(r.subs)
	}
	return r.subs[:limit], nil
}

func (r *memoryRepo) SetRead(_ context.Context, id string, read bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subs {
		if sub.ID == id {
			sub.Read = read
			return nil
		}
	}
	return contact.ErrNotFound
}

func (r *memoryRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, sub := range r.subs {
		if sub.ID == id {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			return nil
		}
	}
	return contact.ErrNotFound
}

var _ = Describe("Contact service", func() {
	var (
		ctx  context.Context
		repo *memoryRepo
		svc  *contact.Service
	)

	BeforeEach(func() {
		ctx = context.Background()
		repo = &memoryRepo{}

		var err error
		svc, err = contact.NewService(repo, nil)
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Submit", func() {
		It("stores a valid submission unread", func() {
			sub, err := svc.Submit(ctx, "Alice", "alice@example.com", "", "Hello", "Hi there")
			Expect(err).NotTo(HaveOccurred())
			Expect(sub.ID).To(HavePrefix("cnt_"))
			Expect(sub.Read).To(BeFalse())
			Expect(repo.subs).To(HaveLen(1))
		})

		It("accepts empty phone and subject", func() {
			_, err := svc.Submit(ctx, "Alice", "alice@example.com", "", "", "Hi there")
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects an invalid email", func() {
			_, err := svc.Submit(ctx, "Alice", "not-an-email", "", "", "Hi there")
			Expect(err).To(HaveOccurred())
			oopsErr, ok := oops.AsOops(err)
			Expect(ok).To(BeTrue())
			Expect(oopsErr.Code()).To(Equal("CONTACT_INVALID_EMAIL"))
		})

		It("rejects an empty message", func() {
			_, err := svc.Submit(ctx, "Alice", "alice@example.com", "", "", "")
			Expect(err).To(HaveOccurred())
		})

		It("wraps repository failures", func() {
			repo.createErr = errors.New("connection refused")
			_, err := svc.Submit(ctx, "Alice", "alice@example.com", "", "", "Hi there")
			Expect(err).To(HaveOccurred())
			oopsErr, ok := oops.AsOops(err)
			Expect(ok).To(BeTrue())
			Expect(oopsErr.Code()).To(Equal("CONTACT_SUBMIT_FAILED"))
		})
	})

	Describe("List", func() {
		It("returns submissions newest first", func() {
			_, err := svc.Submit(ctx, "Alice", "alice@example.com", "", "", "first")
			Expect(err).NotTo(HaveOccurred())
			_, err = svc.Submit(ctx, "Bob", "bob@example.com", "", "", "second")
			Expect(err).NotTo(HaveOccurred())

			subs, err := svc.List(ctx, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(subs).To(HaveLen(2))
			Expect(subs[0].Message).To(Equal("second"))
		})

		It("honours the limit", func() {
			for range 5 {
				_, err := svc.Submit(ctx, "Alice", "alice@example.com", "", "", "msg")
				Expect(err).NotTo(HaveOccurred())
			}

			subs, err := svc.List(ctx, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(subs).To(HaveLen(3))
		})
	})

	Describe("SetRead", func() {
		It("flips the read flag", func() {
			sub, err := svc.Submit(ctx, "Alice", "alice@example.com", "", "", "msg")
			Expect(err).NotTo(HaveOccurred())

			Expect(svc.SetRead(ctx, sub.ID, true)).To(Succeed())
			Expect(repo.subs[0].Read).To(BeTrue())
		})

		It("reports a missing submission", func() {
			err := svc.SetRead(ctx, "cnt_missing", true)
			Expect(err).To(HaveOccurred())
			oopsErr, ok := oops.AsOops(err)
			Expect(ok).To(BeTrue())
			Expect(oopsErr.Code()).To(Equal("CONTACT_NOT_FOUND"))
		})
	})

	Describe("Delete", func() {
		It("removes the submission", func() {
			sub, err := svc.Submit(ctx, "Alice", "alice@example.com", "", "", "msg")
			Expect(err).NotTo(HaveOccurred())

			Expect(svc.Delete(ctx, sub.ID)).To(Succeed())
			Expect(repo.subs).To(BeEmpty())
		})

		It("reports a missing submission", func() {
			err := svc.Delete(ctx, "cnt_missing")
			Expect(err).To(HaveOccurred())
			oopsErr, ok := oops.AsOops(err)
			Expect(ok).To(BeTrue())
			Expect(oopsErr.Code()).To(Equal("CONTACT_NOT_FOUND"))
		})
	})
})
