package services_test

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	. "github.com/onsi/gomega"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/repositories"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/valueobjects"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/cache"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/logging"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/persistence/memory"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/security"
	"github.com/RahimovIlhom/instagram-clone/internal/infrastructure/storage"
	"github.com/RahimovIlhom/instagram-clone/internal/services"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type sentMessage struct {
	Dest    ports.Destination
	Subject string
	Body    string
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
}

func (n *recordingNotifier) Send(dest ports.Destination, subject, htmlBody string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{Dest: dest, Subject: subject, Body: htmlBody})
}

func (n *recordingNotifier) Messages() []sentMessage {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]sentMessage(nil), n.sent...)
}

type plainRenderer struct{}

func (plainRenderer) RenderVerificationCode(code string, _ entities.AuthType) (string, string, error) {
	return "Ro'yxatdan o'tish", "code " + code, nil
}

type recordingActivity struct {
	mu     sync.Mutex
	events []ports.Activity
}

func (a *recordingActivity) Publish(_ context.Context, activity ports.Activity) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, activity)
}

func (a *recordingActivity) Events() []ports.Activity {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]ports.Activity(nil), a.events...)
}

type countingMetrics struct {
	mu        sync.Mutex
	requested map[string]int
	confirmed int
	rejected  map[string]int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{requested: map[string]int{}, rejected: map[string]int{}}
}

func (m *countingMetrics) CodeRequested(channel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requested[channel]++
}

func (m *countingMetrics) CodeConfirmed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmed++
}

func (m *countingMetrics) CodeRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[reason]++
}

// testEnv monta a pilha de serviços sobre o Store em memória
type testEnv struct {
	ctx      context.Context
	clock    *testClock
	store    *memory.Store
	repos    memory.Repositories
	uow      ports.UnitOfWork
	notifier *recordingNotifier
	activity *recordingActivity
	storage  *storage.MemoryStorage
	metrics  *countingMetrics
	tokens   *security.JWTIssuer
	hasher   *security.BcryptHasher

	verificationDeps services.VerificationDeps

	verification *services.VerificationService
	auth         *services.AuthService
	users        *services.UserService
	posts        *services.PostService
	comments     *services.CommentService
	likes        *services.LikeService
	saves        *services.SaveService
}

func newTestEnv() *testEnv {
	logger := logging.NewNopLogger()
	store := memory.NewStore()

	env := &testEnv{
		ctx:      context.Background(),
		clock:    newTestClock(),
		store:    store,
		repos:    store.Repositories(),
		uow:      memory.NewUnitOfWork(store),
		notifier: &recordingNotifier{},
		activity: &recordingActivity{},
		storage:  storage.NewMemoryStorage("http://localhost:8080"),
		metrics:  newCountingMetrics(),
		tokens:   security.NewJWTIssuer("test-secret", 15*time.Minute, 24*time.Hour, cache.NewMemoryDenylist()),
		hasher:   security.NewBcryptHasher(bcrypt.MinCost),
	}
	policy := security.NewPasswordPolicy()

	env.verificationDeps = services.VerificationDeps{
		Users:    env.repos.Users,
		Codes:    env.repos.Codes,
		UoW:      env.uow,
		Notifier: env.notifier,
		Renderer: plainRenderer{},
		Hasher:   env.hasher,
		Policy:   policy,
		Storage:  env.storage,
		CodeGen:  security.NewDigitCodeGenerator(),
		Expiry:   entities.DefaultCodeExpiryPolicy(),
		Metrics:  env.metrics,
		Logger:   logger,
		Now:      env.clock.Now,
	}
	env.verification = services.NewVerificationService(env.verificationDeps)
	env.auth = services.NewAuthService(env.repos.Users, env.uow, env.verification, env.tokens, env.hasher, policy, logger)
	env.users = services.NewUserService(env.repos.Users, env.uow, logger)

	authorizer := services.NewAuthorizer()
	env.posts = services.NewPostService(env.repos.Posts, env.storage, authorizer, logger)
	env.comments = services.NewCommentService(env.repos.Comments, env.repos.Posts, authorizer, env.activity, 3, logger)
	env.likes = services.NewLikeService(env.repos.Likes, env.repos.Posts, env.repos.Comments, authorizer, env.activity, logger)
	env.saves = services.NewSaveService(env.repos.Collections, env.repos.Posts, env.uow, logger)
	return env
}

// newUser grava um usuário de email no status informado
func (e *testEnv) newUser(username string, status entities.AuthStatus) *entities.User {
	email, err := valueobjects.NewEmail(username + "@example.com")
	Expect(err).NotTo(HaveOccurred())

	user := entities.NewUser(entities.AuthTypeEmail, &email, nil)
	user.Username = username
	user.AuthStatus = status
	Expect(e.repos.Users.Create(e.ctx, user)).To(Succeed())
	return user
}

func (e *testEnv) newPhoneUser(username, phone string) *entities.User {
	p, err := valueobjects.NewPhone(phone)
	Expect(err).NotTo(HaveOccurred())

	user := entities.NewUser(entities.AuthTypePhone, nil, &p)
	user.Username = username
	Expect(e.repos.Users.Create(e.ctx, user)).To(Succeed())
	return user
}

func (e *testEnv) reload(id string) *entities.User {
	user, err := e.repos.Users.FindByID(e.ctx, id)
	Expect(err).NotTo(HaveOccurred())
	Expect(user).NotTo(BeNil())
	return user
}

func (e *testEnv) storedCode(userID string) *entities.VerificationCode {
	code, err := e.repos.Codes.FindByUserIDForUpdate(e.ctx, userID)
	Expect(err).NotTo(HaveOccurred())
	return code
}

func (e *testEnv) newPost(author *entities.User, caption string) *services.PostView {
	view, err := e.posts.Create(e.ctx, author, caption, imageUpload("photo.jpg"))
	Expect(err).NotTo(HaveOccurred())
	return view
}

func imageUpload(filename string) services.PhotoUpload {
	return services.PhotoUpload{
		Filename:    filename,
		ContentType: "image/jpeg",
		Size:        4,
		Reader:      strings.NewReader("\xff\xd8\xff\xe0"),
	}
}

// otherCode devolve um código de 4 dígitos diferente de code
func otherCode(code string) string {
	if code == "0000" {
		return "1111"
	}
	return "0000"
}

// interleavingUsers executa between uma única vez, logo depois da primeira
// leitura por id ou email, simulando uma escrita concorrente
type interleavingUsers struct {
	repositories.UserRepository
	once    sync.Once
	between func()
}

func (r *interleavingUsers) FindByID(ctx context.Context, id string) (*entities.User, error) {
	user, err := r.UserRepository.FindByID(ctx, id)
	r.once.Do(r.between)
	return user, err
}

func (r *interleavingUsers) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	user, err := r.UserRepository.FindByEmail(ctx, email)
	r.once.Do(r.between)
	return user, err
}

// authWithUsers monta um AuthService sobre outro UserRepository
func (e *testEnv) authWithUsers(users repositories.UserRepository) *services.AuthService {
	return services.NewAuthService(users, e.uow, e.verification, e.tokens, e.hasher, security.NewPasswordPolicy(), logging.NewNopLogger())
}

// uploadRecorder guarda as URLs devolvidas por Upload
type uploadRecorder struct {
	*storage.MemoryStorage
	mu   sync.Mutex
	urls []string
}

func (r *uploadRecorder) Upload(ctx context.Context, folder, filename string, rd io.Reader, size int64, contentType string) (string, error) {
	url, err := r.MemoryStorage.Upload(ctx, folder, filename, rd, size, contentType)
	if err == nil {
		r.mu.Lock()
		r.urls = append(r.urls, url)
		r.mu.Unlock()
	}
	return url, err
}

func (r *uploadRecorder) URLs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.urls...)
}
