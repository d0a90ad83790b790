package services_test

import (
	"errors"
	"strings"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
	"github.com/RahimovIlhom/instagram-clone/internal/services"
)

const strongPassword = "Sunny-Harbor-42"

func profile(username string) services.ProfileInput {
	return services.ProfileInput{
		FirstName:       "Ilhom",
		LastName:        "Rahimov",
		Username:        username,
		Password:        strongPassword,
		PasswordConfirm: strongPassword,
	}
}

var _ = Describe("VerificationService", func() {
	var env *testEnv

	BeforeEach(func() {
		env = newTestEnv()
	})

	Describe("RequestCode", func() {
		It("issues a 4-digit code that expires in 5 minutes for email users", func() {
			user := env.newUser("emailuser", entities.AuthStatusNew)

			result, err := env.verification.RequestCode(env.ctx, user.ID, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Code).To(MatchRegexp(`^[0-9]{4}$`))

			stored := env.storedCode(user.ID)
			Expect(stored).NotTo(BeNil())
			Expect(stored.Code).To(Equal(result.Code))
			Expect(stored.Channel).To(Equal(entities.AuthTypeEmail))
			Expect(stored.Confirmed).To(BeFalse())
			Expect(stored.ExpirationTime).To(BeTemporally("==", env.clock.Now().Add(5*time.Minute)))
		})

		It("uses a 2 minute expiry for phone users", func() {
			user := env.newPhoneUser("phoneuser", "+998901234567")

			_, err := env.verification.RequestCode(env.ctx, user.ID, "")
			Expect(err).NotTo(HaveOccurred())

			stored := env.storedCode(user.ID)
			Expect(stored.Channel).To(Equal(entities.AuthTypePhone))
			Expect(stored.ExpirationTime).To(BeTemporally("==", env.clock.Now().Add(2*time.Minute)))
		})

		It("dispatches the code to the user's address", func() {
			user := env.newUser("dispatch", entities.AuthStatusNew)

			result, err := env.verification.RequestCode(env.ctx, user.ID, "")
			Expect(err).NotTo(HaveOccurred())

			messages := env.notifier.Messages()
			Expect(messages).To(HaveLen(1))
			Expect(messages[0].Dest.Channel).To(Equal(entities.AuthTypeEmail))
			Expect(messages[0].Dest.Address).To(Equal("dispatch@example.com"))
			Expect(messages[0].Subject).To(Equal("Ro'yxatdan o'tish"))
			Expect(messages[0].Body).To(ContainSubstring(result.Code))
		})

		It("rejects a second request while the first code is pending", func() {
			user := env.newUser("pending", entities.AuthStatusNew)

			_, err := env.verification.RequestCode(env.ctx, user.ID, "")
			Expect(err).NotTo(HaveOccurred())

			_, err = env.verification.RequestCode(env.ctx, user.ID, "")
			Expect(err).To(MatchError(domainerrors.ErrCodeAlreadyPending))
			Expect(domainerrors.KindOf(err)).To(Equal(domainerrors.KindStateConflict))
			Expect(env.notifier.Messages()).To(HaveLen(1))
			Expect(env.metrics.rejected["pending"]).To(Equal(1))
		})

		It("overwrites the record once the previous code expired", func() {
			user := env.newUser("overwrite", entities.AuthStatusNew)

			_, err := env.verification.RequestCode(env.ctx, user.ID, "")
			Expect(err).NotTo(HaveOccurred())
			first := env.storedCode(user.ID)

			env.clock.Advance(5*time.Minute + time.Second)

			_, err = env.verification.RequestCode(env.ctx, user.ID, "")
			Expect(err).NotTo(HaveOccurred())

			second := env.storedCode(user.ID)
			Expect(second.ID).To(Equal(first.ID))
			Expect(second.ExpirationTime).To(BeTemporally("==", env.clock.Now().Add(5*time.Minute)))
			Expect(second.IsPending(env.clock.Now())).To(BeTrue())
			Expect(env.metrics.requested["email"]).To(Equal(2))
		})

		It("allows a new request after the code was confirmed", func() {
			user := env.newUser("confirmed", entities.AuthStatusNew)

			result, err := env.verification.RequestCode(env.ctx, user.ID, "")
			Expect(err).NotTo(HaveOccurred())
			_, err = env.verification.ConfirmCode(env.ctx, user.ID, result.Code)
			Expect(err).NotTo(HaveOccurred())

			_, err = env.verification.RequestCode(env.ctx, user.ID, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(env.storedCode(user.ID).Confirmed).To(BeFalse())
		})

		It("leaves exactly one pending code under concurrent requests", func() {
			user := env.newUser("racer", entities.AuthStatusNew)

			const callers = 8
			var (
				wg        sync.WaitGroup
				mu        sync.Mutex
				succeeded int
				pending   int
			)
			wg.Add(callers)
			for i := 0; i < callers; i++ {
				go func() {
					defer GinkgoRecover()
					defer wg.Done()

					_, err := env.verification.RequestCode(env.ctx, user.ID, "")
					mu.Lock()
					defer mu.Unlock()
					switch {
					case err == nil:
						succeeded++
					case errors.Is(err, domainerrors.ErrCodeAlreadyPending):
						pending++
					default:
						Fail("unexpected error: " + err.Error())
					}
				}()
			}
			wg.Wait()

			Expect(succeeded).To(Equal(1))
			Expect(pending).To(Equal(callers - 1))
			Expect(env.storedCode(user.ID).IsPending(env.clock.Now())).To(BeTrue())
		})

		It("fails for unknown users", func() {
			_, err := env.verification.RequestCode(env.ctx, "missing", "")
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})

		It("rejects a channel the user has no address for", func() {
			user := env.newUser("nophone", entities.AuthStatusNew)

			_, err := env.verification.RequestCode(env.ctx, user.ID, entities.AuthTypePhone)
			Expect(err).To(MatchError(domainerrors.ErrUnsupportedAuthType))
			Expect(env.storedCode(user.ID)).To(BeNil())
		})
	})

	Describe("ConfirmCode", func() {
		var (
			user *entities.User
			code string
		)

		BeforeEach(func() {
			user = env.newUser("confirmer", entities.AuthStatusNew)
			result, err := env.verification.RequestCode(env.ctx, user.ID, "")
			Expect(err).NotTo(HaveOccurred())
			code = result.Code
		})

		It("moves new to code_verified within the expiry window and fails after it", func() {
			env.clock.Advance(4 * time.Minute)

			confirmed, err := env.verification.ConfirmCode(env.ctx, user.ID, code)
			Expect(err).NotTo(HaveOccurred())
			Expect(confirmed.AuthStatus).To(Equal(entities.AuthStatusCodeVerified))
			Expect(env.reload(user.ID).AuthStatus).To(Equal(entities.AuthStatusCodeVerified))
			Expect(env.storedCode(user.ID).Confirmed).To(BeTrue())

			env.clock.Advance(time.Minute + time.Second)

			_, err = env.verification.ConfirmCode(env.ctx, user.ID, code)
			Expect(err).To(MatchError(domainerrors.ErrInvalidOrExpiredCode))
			Expect(domainerrors.KindOf(err)).To(Equal(domainerrors.KindValidation))
		})

		It("accepts the code exactly at its expiration time", func() {
			env.clock.Advance(5 * time.Minute)

			_, err := env.verification.ConfirmCode(env.ctx, user.ID, code)
			Expect(err).NotTo(HaveOccurred())
		})

		It("accepts re-confirmation without changing the status again", func() {
			_, err := env.verification.ConfirmCode(env.ctx, user.ID, code)
			Expect(err).NotTo(HaveOccurred())

			again, err := env.verification.ConfirmCode(env.ctx, user.ID, code)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.AuthStatus).To(Equal(entities.AuthStatusCodeVerified))
			Expect(env.metrics.confirmed).To(Equal(2))
		})

		It("never regresses a finished account", func() {
			_, err := env.verification.ConfirmCode(env.ctx, user.ID, code)
			Expect(err).NotTo(HaveOccurred())
			_, err = env.verification.CompleteProfile(env.ctx, user.ID, profile("finished1"))
			Expect(err).NotTo(HaveOccurred())

			after, err := env.verification.ConfirmCode(env.ctx, user.ID, code)
			Expect(err).NotTo(HaveOccurred())
			Expect(after.AuthStatus).To(Equal(entities.AuthStatusDone))
		})

		It("rejects a wrong code", func() {
			_, err := env.verification.ConfirmCode(env.ctx, user.ID, otherCode(code))
			Expect(err).To(MatchError(domainerrors.ErrInvalidOrExpiredCode))
			Expect(env.reload(user.ID).AuthStatus).To(Equal(entities.AuthStatusNew))
			Expect(env.metrics.rejected["invalid_or_expired"]).To(Equal(1))
		})
	})

	Describe("CompleteProfile", func() {
		It("fails from new with a state conflict", func() {
			user := env.newUser("newbie", entities.AuthStatusNew)

			_, err := env.verification.CompleteProfile(env.ctx, user.ID, profile("validuser1"))
			Expect(err).To(MatchError(domainerrors.ErrProfileIncompleteState))
			Expect(domainerrors.KindOf(err)).To(Equal(domainerrors.KindStateConflict))
			Expect(env.reload(user.ID).Username).To(Equal("newbie"))
		})

		DescribeTable("username validation",
			func(username string, expected error) {
				user := env.newUser("verified", entities.AuthStatusCodeVerified)

				updated, err := env.verification.CompleteProfile(env.ctx, user.ID, profile(username))
				if expected != nil {
					Expect(err).To(MatchError(expected))
					return
				}
				Expect(err).NotTo(HaveOccurred())
				Expect(updated.Username).To(Equal(username))
				Expect(updated.AuthStatus).To(Equal(entities.AuthStatusDone))
			},
			Entry("too short", "ab", domainerrors.ErrUsernameLength),
			Entry("four characters", "abcd", domainerrors.ErrUsernameLength),
			Entry("fifteen characters", "abcdefghijklmno", domainerrors.ErrUsernameLength),
			Entry("only digits", "12345", domainerrors.ErrUsernameNumeric),
			Entry("valid", "validuser1", nil),
			Entry("five characters", "abcde", nil),
			Entry("fourteen characters", "abcdefghijklmn", nil),
		)

		It("rejects a username used by another account", func() {
			env.newUser("takenname", entities.AuthStatusDone)
			user := env.newUser("verified", entities.AuthStatusCodeVerified)

			_, err := env.verification.CompleteProfile(env.ctx, user.ID, profile("takenname"))
			Expect(err).To(MatchError(domainerrors.ErrUsernameTaken))
		})

		It("lets the user keep their own username", func() {
			user := env.newUser("keepname", entities.AuthStatusCodeVerified)

			_, err := env.verification.CompleteProfile(env.ctx, user.ID, profile("keepname"))
			Expect(err).NotTo(HaveOccurred())
		})

		It("requires matching passwords", func() {
			user := env.newUser("verified", entities.AuthStatusCodeVerified)
			input := profile("validuser1")
			input.PasswordConfirm = "something-else-9"

			_, err := env.verification.CompleteProfile(env.ctx, user.ID, input)
			Expect(err).To(MatchError(domainerrors.ErrPasswordMismatch))
		})

		It("applies the password policy", func() {
			user := env.newUser("verified", entities.AuthStatusCodeVerified)
			input := profile("validuser1")
			input.Password = "12345678"
			input.PasswordConfirm = "12345678"

			_, err := env.verification.CompleteProfile(env.ctx, user.ID, input)
			Expect(err).To(MatchError(domainerrors.ErrPasswordPolicy))
			Expect(env.reload(user.ID).AuthStatus).To(Equal(entities.AuthStatusCodeVerified))
		})

		It("stores names and a password hash", func() {
			user := env.newUser("verified", entities.AuthStatusCodeVerified)

			_, err := env.verification.CompleteProfile(env.ctx, user.ID, profile("validuser1"))
			Expect(err).NotTo(HaveOccurred())

			stored := env.reload(user.ID)
			Expect(stored.FullName()).To(Equal("Ilhom Rahimov"))
			Expect(env.hasher.Compare(stored.PasswordHash, strongPassword)).To(BeTrue())
		})

		It("moves photo_step back to done", func() {
			user := env.newUser("photouser", entities.AuthStatusPhotoStep)

			updated, err := env.verification.CompleteProfile(env.ctx, user.ID, profile("photouser"))
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.AuthStatus).To(Equal(entities.AuthStatusDone))
		})
	})

	Describe("AttachPhoto", func() {
		DescribeTable("status guard",
			func(status entities.AuthStatus) {
				user := env.newUser("guarded", status)

				_, err := env.verification.AttachPhoto(env.ctx, user.ID, imageUpload("me.png"))
				Expect(err).To(MatchError(domainerrors.ErrPhotoStepNotAllowed))
				Expect(domainerrors.KindOf(err)).To(Equal(domainerrors.KindStateConflict))
				Expect(env.reload(user.ID).Photo).To(BeNil())
			},
			Entry("new", entities.AuthStatusNew),
			Entry("code_verified", entities.AuthStatusCodeVerified),
		)

		It("stores the photo and moves done to photo_step", func() {
			user := env.newUser("photodone", entities.AuthStatusDone)

			updated, err := env.verification.AttachPhoto(env.ctx, user.ID, imageUpload("me.HEIC"))
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.AuthStatus).To(Equal(entities.AuthStatusPhotoStep))
			Expect(updated.Photo).NotTo(BeNil())
			Expect(*updated.Photo).To(HavePrefix("http://localhost:8080/media/users_photos/"))
			Expect(*updated.Photo).To(HaveSuffix(".heic"))
		})

		It("keeps photo_step when replacing the photo", func() {
			user := env.newUser("photoagain", entities.AuthStatusPhotoStep)

			updated, err := env.verification.AttachPhoto(env.ctx, user.ID, imageUpload("new.jpg"))
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.AuthStatus).To(Equal(entities.AuthStatusPhotoStep))
		})

		It("rejects unsupported extensions", func() {
			user := env.newUser("photogif", entities.AuthStatusDone)

			_, err := env.verification.AttachPhoto(env.ctx, user.ID, imageUpload("anim.gif"))
			Expect(err).To(MatchError(domainerrors.ErrUnsupportedImageType))
		})

		It("removes the uploaded file when the account disappears before saving", func() {
			user := env.newUser("photogone", entities.AuthStatusDone)
			uploads := &uploadRecorder{MemoryStorage: env.storage}

			deps := env.verificationDeps
			deps.Storage = uploads
			deps.Users = &interleavingUsers{
				UserRepository: env.repos.Users,
				between: func() {
					Expect(env.users.DeleteUser(env.ctx, user, user.ID)).To(Succeed())
				},
			}
			verification := services.NewVerificationService(deps)

			_, err := verification.AttachPhoto(env.ctx, user.ID, imageUpload("me.png"))
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))

			Expect(uploads.URLs()).To(HaveLen(1))
			key := strings.TrimPrefix(uploads.URLs()[0], "http://localhost:8080/media/")
			_, stored := env.storage.Object(key)
			Expect(stored).To(BeFalse())
		})
	})
})
