package auth_test

import (
	"errors"
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/technoapex/timesheet-pro/internal/auth"
)

type mockUserRepository struct {
	users  map[string]*auth.User
	hashes map[string]string
	nextID int64

	createErr error
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:  make(map[string]*auth.User),
		hashes: make(map[string]string),
		nextID: 1,
	}
}

func (m *mockUserRepository) addUser(email, password, role string) *auth.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	Expect(err).NotTo(HaveOccurred())

	u := &auth.User{ID: m.nextID, Email: email, Role: role}
	m.nextID++
	m.users[email] = u
	m.hashes[email] = string(hash)
	return u
}

func (m *mockUserRepository) GetPasswordForEmail(email string) (string, string, string, error) {
	u, ok := m.users[email]
	if !ok {
		return "", "", "", errors.New("user not found")
	}
	return m.hashes[email], strconv.FormatInt(u.ID, 10), u.Role, nil
}

func (m *mockUserRepository) GetUserByID(userID int64) (*auth.User, error) {
	for _, u := range m.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (m *mockUserRepository) CreateUser(email, passwordHash, role string) (*auth.User, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	u := &auth.User{ID: m.nextID, Email: email, Role: role}
	m.nextID++
	m.users[email] = u
	m.hashes[email] = passwordHash
	return u, nil
}

var _ = Describe("Auth Service", func() {
	var (
		repo     *mockUserRepository
		tokenGen *auth.JWTTokenGenerator
		service  *auth.Service
	)

	BeforeEach(func() {
		repo = newMockUserRepository()
		tokenGen = auth.NewJWTTokenGenerator("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
		service = auth.NewService(repo, tokenGen, bcrypt.MinCost)
	})

	Describe("Authenticate", func() {
		BeforeEach(func() {
			repo.addUser("dinesh@example.com", "password", auth.RoleUser)
		})

		It("should return tokens for valid credentials", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "dinesh@example.com",
				Password: "password",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())
		})

		It("should normalize the email before lookup", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "  Dinesh@Example.COM ",
				Password: "password",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
		})

		It("should reject a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "dinesh@example.com",
				Password: "wrong-password",
			})

			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should reject an unknown email without creating an account", func() {
			_, err := service.Authenticate(auth.LoginDTO{
				Email:    "stranger@example.com",
				Password: "password",
			})

			Expect(err).To(Equal(auth.ErrInvalidCredentials))
			Expect(repo.users).NotTo(HaveKey("stranger@example.com"))
		})

		It("should reject empty credentials before touching the repository", func() {
			_, err := service.Authenticate(auth.LoginDTO{})

			var verr auth.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
		})
	})

	Describe("Register", func() {
		It("should create the account and sign the caller in", func() {
			tokens, err := service.Register(auth.RegisterDTO{
				Email:    "new@example.com",
				Password: "password123",
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())

			u, ok := repo.users["new@example.com"]
			Expect(ok).To(BeTrue())
			Expect(u.Role).To(Equal(auth.RoleUser))
		})

		It("should store a verifiable bcrypt hash, never the password", func() {
			_, err := service.Register(auth.RegisterDTO{
				Email:    "new@example.com",
				Password: "password123",
			})
			Expect(err).NotTo(HaveOccurred())

			hash := repo.hashes["new@example.com"]
			Expect(hash).NotTo(Equal("password123"))
			Expect(auth.VerifyPassword(hash, "password123")).To(Succeed())
		})

		It("should refuse an email that is already registered", func() {
			repo.addUser("dinesh@example.com", "password", auth.RoleUser)

			_, err := service.Register(auth.RegisterDTO{
				Email:    "dinesh@example.com",
				Password: "another-password",
			})

			Expect(err).To(Equal(auth.ErrEmailTaken))
		})

		It("should refuse a short password", func() {
			_, err := service.Register(auth.RegisterDTO{
				Email:    "new@example.com",
				Password: "short",
			})

			var verr auth.ValidationError
			Expect(errors.As(err, &verr)).To(BeTrue())
		})
	})

	Describe("RefreshTokens", func() {
		It("should issue fresh tokens from a valid refresh token", func() {
			repo.addUser("dinesh@example.com", "password", auth.RoleUser)

			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "dinesh@example.com",
				Password: "password",
			})
			Expect(err).NotTo(HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(refreshed.AccessToken).NotTo(BeEmpty())

			claims, err := service.ValidateAccessToken(refreshed.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.Email).To(Equal("dinesh@example.com"))
		})

		It("should reject garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-token")
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})

	Describe("ValidateAccessToken", func() {
		It("should return the claims embedded at issue time", func() {
			u := repo.addUser("dinesh@example.com", "password", auth.RoleManager)

			tokens, err := service.Authenticate(auth.LoginDTO{
				Email:    "dinesh@example.com",
				Password: "password",
			})
			Expect(err).NotTo(HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal(strconv.FormatInt(u.ID, 10)))
			Expect(claims.Email).To(Equal("dinesh@example.com"))
			Expect(claims.Role).To(Equal(auth.RoleManager))
		})

		It("should report an expired token distinctly", func() {
			expiredGen := &auth.JWTTokenGenerator{
				AccessTokenSecret:  []byte("access-secret"),
				RefreshTokenSecret: []byte("refresh-secret"),
				AccessTokenTTL:     -time.Minute,
				RefreshTokenTTL:    24 * time.Hour,
			}

			token, err := expiredGen.GenerateAccessToken("1", "dinesh@example.com", auth.RoleUser)
			Expect(err).NotTo(HaveOccurred())

			_, err = expiredGen.ValidateToken(token)
			Expect(err).To(Equal(auth.ErrTokenExpired))
		})

		It("should reject a token signed with a different secret", func() {
			otherGen := auth.NewJWTTokenGenerator("other-secret", "other-refresh", time.Hour, 24*time.Hour)
			token, err := otherGen.GenerateAccessToken("1", "dinesh@example.com", auth.RoleUser)
			Expect(err).NotTo(HaveOccurred())

			_, err = tokenGen.ValidateToken(token)
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})
})
