package services_test

import (
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
)

var _ = Describe("AuthService", func() {
	var env *testEnv

	BeforeEach(func() {
		env = newTestEnv()
	})

	// onboard cadastra e conclui o perfil de um usuário de email
	onboard := func(email, username string) *entities.User {
		result, err := env.auth.SignUp(env.ctx, email)
		Expect(err).NotTo(HaveOccurred())

		code := env.storedCode(result.User.ID).Code
		_, err = env.verification.ConfirmCode(env.ctx, result.User.ID, code)
		Expect(err).NotTo(HaveOccurred())

		user, err := env.verification.CompleteProfile(env.ctx, result.User.ID, profile(username))
		Expect(err).NotTo(HaveOccurred())
		return user
	}

	Describe("SignUp", func() {
		It("creates a new email user and sends the first code", func() {
			result, err := env.auth.SignUp(env.ctx, "  New.User@Example.com ")
			Expect(err).NotTo(HaveOccurred())

			Expect(result.User.AuthType).To(Equal(entities.AuthTypeEmail))
			Expect(result.User.AuthStatus).To(Equal(entities.AuthStatusNew))
			Expect(result.User.Email.String()).To(Equal("new.user@example.com"))
			Expect(result.User.Username).To(HavePrefix(entities.DefaultUsernamePrefix))
			Expect(result.Tokens.Access).NotTo(BeEmpty())
			Expect(result.Tokens.Refresh).NotTo(BeEmpty())

			Expect(env.storedCode(result.User.ID).IsPending(env.clock.Now())).To(BeTrue())
			messages := env.notifier.Messages()
			Expect(messages).To(HaveLen(1))
			Expect(messages[0].Dest.Address).To(Equal("new.user@example.com"))
		})

		It("creates a phone user", func() {
			result, err := env.auth.SignUp(env.ctx, "+998901234567")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.User.AuthType).To(Equal(entities.AuthTypePhone))
			Expect(result.User.PhoneNumber.String()).To(Equal("+998901234567"))
			Expect(env.notifier.Messages()[0].Dest.Channel).To(Equal(entities.AuthTypePhone))
		})

		It("generates a distinct ID and username per account", func() {
			first, err := env.auth.SignUp(env.ctx, "first@example.com")
			Expect(err).NotTo(HaveOccurred())
			second, err := env.auth.SignUp(env.ctx, "second@example.com")
			Expect(err).NotTo(HaveOccurred())

			Expect(first.User.ID).NotTo(Equal(second.User.ID))
			Expect(first.User.Username).NotTo(Equal(second.User.Username))
		})

		It("rejects an email that is already registered", func() {
			_, err := env.auth.SignUp(env.ctx, "dup@example.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = env.auth.SignUp(env.ctx, "DUP@example.com")
			Expect(err).To(MatchError(domainerrors.ErrEmailAlreadyExists))
			Expect(domainerrors.KindOf(err)).To(Equal(domainerrors.KindValidation))
		})

		It("rejects a phone that is already registered", func() {
			_, err := env.auth.SignUp(env.ctx, "+998901234567")
			Expect(err).NotTo(HaveOccurred())

			_, err = env.auth.SignUp(env.ctx, "+998901234567")
			Expect(err).To(MatchError(domainerrors.ErrPhoneAlreadyExists))
		})

		It("rejects input that is neither email nor phone", func() {
			_, err := env.auth.SignUp(env.ctx, "not a contact")
			Expect(err).To(MatchError(domainerrors.ErrInvalidEmailOrPhone))
			Expect(env.notifier.Messages()).To(BeEmpty())
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			onboard("login@example.com", "loginuser")
		})

		DescribeTable("finds the account by any identifier",
			func(input string) {
				result, err := env.auth.Login(env.ctx, input, strongPassword)
				Expect(err).NotTo(HaveOccurred())
				Expect(result.User.Username).To(Equal("loginuser"))
				Expect(result.User.LastLoginAt).NotTo(BeNil())
				Expect(result.Tokens.Access).NotTo(BeEmpty())
			},
			Entry("username", "loginuser"),
			Entry("email", "login@example.com"),
			Entry("email in upper case", "LOGIN@EXAMPLE.COM"),
		)

		It("rejects a wrong password", func() {
			_, err := env.auth.Login(env.ctx, "loginuser", "wrong-password-1")
			Expect(err).To(MatchError(domainerrors.ErrInvalidCredentials))
		})

		It("reports unknown accounts", func() {
			_, err := env.auth.Login(env.ctx, "nobody", strongPassword)
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})

		It("rejects malformed input", func() {
			_, err := env.auth.Login(env.ctx, "a b", strongPassword)
			Expect(err).To(MatchError(domainerrors.ErrInvalidUserInput))
		})
	})

	Describe("session tokens", func() {
		It("refreshes until the refresh token is revoked", func() {
			onboard("session@example.com", "sessionuser")
			result, err := env.auth.Login(env.ctx, "sessionuser", strongPassword)
			Expect(err).NotTo(HaveOccurred())

			access, err := env.auth.RefreshToken(env.ctx, result.Tokens.Refresh)
			Expect(err).NotTo(HaveOccurred())
			claims, err := env.tokens.ParseAccess(env.ctx, access)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(result.User.ID))

			Expect(env.auth.Logout(env.ctx, result.Tokens.Refresh)).To(Succeed())

			_, err = env.auth.RefreshToken(env.ctx, result.Tokens.Refresh)
			Expect(err).To(MatchError(domainerrors.ErrTokenRevoked))
			Expect(domainerrors.KindOf(err)).To(Equal(domainerrors.KindUnauthorized))
		})

		It("does not accept an access token as refresh token", func() {
			result, err := env.auth.SignUp(env.ctx, "tokens@example.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = env.auth.RefreshToken(env.ctx, result.Tokens.Access)
			Expect(err).To(MatchError(domainerrors.ErrInvalidToken))
		})
	})

	Describe("ForgotPassword", func() {
		It("is blocked while the sign-up code is pending", func() {
			_, err := env.auth.SignUp(env.ctx, "forgot@example.com")
			Expect(err).NotTo(HaveOccurred())

			_, err = env.auth.ForgotPassword(env.ctx, "forgot@example.com")
			Expect(err).To(MatchError(domainerrors.ErrCodeAlreadyPending))
		})

		It("sends a new code once the previous one expired", func() {
			signup, err := env.auth.SignUp(env.ctx, "forgot@example.com")
			Expect(err).NotTo(HaveOccurred())
			env.clock.Advance(6 * time.Minute)

			result, err := env.auth.ForgotPassword(env.ctx, "Forgot@Example.com")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.User.ID).To(Equal(signup.User.ID))
			Expect(result.Tokens.Access).NotTo(BeEmpty())
			Expect(env.notifier.Messages()).To(HaveLen(2))
		})

		It("finds phone accounts", func() {
			_, err := env.auth.SignUp(env.ctx, "+998901234567")
			Expect(err).NotTo(HaveOccurred())
			env.clock.Advance(3 * time.Minute)

			_, err = env.auth.ForgotPassword(env.ctx, "+998901234567")
			Expect(err).NotTo(HaveOccurred())
			last := env.notifier.Messages()[1]
			Expect(last.Dest.Channel).To(Equal(entities.AuthTypePhone))
		})

		It("reports unknown contacts", func() {
			_, err := env.auth.ForgotPassword(env.ctx, "ghost@example.com")
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})
	})

	Describe("ResetPassword", func() {
		var user *entities.User

		BeforeEach(func() {
			user = onboard("reset@example.com", "resetuser")
		})

		It("replaces the password", func() {
			result, err := env.auth.ResetPassword(env.ctx, user.ID, "Brand-New-Pass-7", "Brand-New-Pass-7")
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Tokens.Refresh).NotTo(BeEmpty())

			_, err = env.auth.Login(env.ctx, "resetuser", "Brand-New-Pass-7")
			Expect(err).NotTo(HaveOccurred())
			_, err = env.auth.Login(env.ctx, "resetuser", strongPassword)
			Expect(err).To(MatchError(domainerrors.ErrInvalidCredentials))
		})

		It("requires matching passwords", func() {
			_, err := env.auth.ResetPassword(env.ctx, user.ID, "Brand-New-Pass-7", "Brand-New-Pass-8")
			Expect(err).To(MatchError(domainerrors.ErrPasswordMismatch))
		})

		It("applies the password policy", func() {
			_, err := env.auth.ResetPassword(env.ctx, user.ID, "resetuser-123", "resetuser-123")
			Expect(err).To(MatchError(domainerrors.ErrPasswordPolicy))

			_, err = env.auth.ResetPassword(env.ctx, user.ID, strings.Repeat("1", 10), strings.Repeat("1", 10))
			Expect(err).To(MatchError(domainerrors.ErrPasswordPolicy))
		})
	})
})

var _ = Describe("AuthService with concurrent profile writes", func() {
	var env *testEnv

	BeforeEach(func() {
		env = newTestEnv()
	})

	It("keeps a profile completed between refresh's read and write", func() {
		user := env.newUser("racer1", entities.AuthStatusCodeVerified)
		tokens, err := env.tokens.IssueTokenPair(env.ctx, user)
		Expect(err).NotTo(HaveOccurred())

		auth := env.authWithUsers(&interleavingUsers{
			UserRepository: env.repos.Users,
			between: func() {
				_, err := env.verification.CompleteProfile(env.ctx, user.ID, profile("validuser1"))
				Expect(err).NotTo(HaveOccurred())
			},
		})

		_, err = auth.RefreshToken(env.ctx, tokens.Refresh)
		Expect(err).NotTo(HaveOccurred())

		stored := env.reload(user.ID)
		Expect(stored.AuthStatus).To(Equal(entities.AuthStatusDone))
		Expect(stored.Username).To(Equal("validuser1"))
		Expect(env.hasher.Compare(stored.PasswordHash, strongPassword)).To(BeTrue())
		Expect(stored.LastLoginAt).NotTo(BeNil())
	})

	It("keeps a profile completed between login's read and write", func() {
		user := env.newUser("racer2", entities.AuthStatusCodeVerified)
		hash, err := env.hasher.Hash("Old-Meadow-77")
		Expect(err).NotTo(HaveOccurred())
		user.PasswordHash = hash
		Expect(env.repos.Users.Update(env.ctx, user)).To(Succeed())

		auth := env.authWithUsers(&interleavingUsers{
			UserRepository: env.repos.Users,
			between: func() {
				_, err := env.verification.CompleteProfile(env.ctx, user.ID, profile("validuser2"))
				Expect(err).NotTo(HaveOccurred())
			},
		})

		_, err = auth.Login(env.ctx, "racer2@example.com", "Old-Meadow-77")
		Expect(err).NotTo(HaveOccurred())

		stored := env.reload(user.ID)
		Expect(stored.AuthStatus).To(Equal(entities.AuthStatusDone))
		Expect(stored.Username).To(Equal("validuser2"))
		Expect(stored.LastLoginAt).NotTo(BeNil())
	})

	It("does not bring back an account deleted during refresh", func() {
		user := env.newUser("racer3", entities.AuthStatusDone)
		tokens, err := env.tokens.IssueTokenPair(env.ctx, user)
		Expect(err).NotTo(HaveOccurred())

		auth := env.authWithUsers(&interleavingUsers{
			UserRepository: env.repos.Users,
			between: func() {
				Expect(env.users.DeleteUser(env.ctx, user, user.ID)).To(Succeed())
			},
		})

		_, err = auth.RefreshToken(env.ctx, tokens.Refresh)
		Expect(err).NotTo(HaveOccurred())

		gone, err := env.repos.Users.FindByID(env.ctx, user.ID)
		Expect(err).NotTo(HaveOccurred())
		Expect(gone).To(BeNil())
	})
})
