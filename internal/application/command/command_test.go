package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/careerpath-hub/career-path-builder/internal/domain/shared"
	"github.com/careerpath-hub/career-path-builder/internal/infrastructure/persistence/jsonfile"
	"github.com/careerpath-hub/career-path-builder/internal/infrastructure/security"
)

type stubWelcome struct {
	ok    bool
	calls []string
}

func (s *stubWelcome) SendWelcome(_ context.Context, email, name string) bool {
	s.calls = append(s.calls, email+"|"+name)
	return s.ok
}

func newRegister(t *testing.T, welcome *stubWelcome) (*RegisterAccountHandler, *jsonfile.AccountStore, *security.BcryptHasher) {
	t.Helper()
	store := jsonfile.NewAccountStore(t.TempDir())
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	return NewRegisterAccountHandler(store, hasher, welcome, nil), store, hasher
}

func TestRegister_CreatesAccountAndSendsWelcome(t *testing.T) {
	welcome := &stubWelcome{ok: true}
	h, store, hasher := newRegister(t, welcome)

	res, err := h.Handle(context.Background(), RegisterAccountCommand{Name: " Alice ", Email: "Alice@X.com", Password: "pw123"})
	require.NoError(t, err)

	assert.Equal(t, "1", res.Account.ID)
	assert.Equal(t, "alice@x.com", res.Account.Email)
	assert.True(t, res.WelcomeSent)
	assert.Equal(t, MsgRegisteredEmailSent, res.Message)
	assert.Equal(t, []string{"alice@x.com|Alice"}, welcome.calls)

	stored, err := store.GetByID(context.Background(), "1")
	require.NoError(t, err)
	assert.NotEqual(t, "pw123", stored.PasswordHash)
	assert.True(t, hasher.Verify(stored.PasswordHash, "pw123"))
	assert.False(t, hasher.Verify(stored.PasswordHash, "pw124"))
}

func TestRegister_WelcomeFailureStillRegisters(t *testing.T) {
	h, store, _ := newRegister(t, &stubWelcome{ok: false})

	res, err := h.Handle(context.Background(), RegisterAccountCommand{Name: "Bob", Email: "bob@x.com", Password: "pw"})
	require.NoError(t, err)
	assert.False(t, res.WelcomeSent)
	assert.Equal(t, MsgRegistered, res.Message)

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRegister_CaseVariantDuplicateRejected(t *testing.T) {
	welcome := &stubWelcome{ok: true}
	h, store, _ := newRegister(t, welcome)
	ctx := context.Background()

	_, err := h.Handle(ctx, RegisterAccountCommand{Name: "Alice", Email: "alice@x.com", Password: "pw"})
	require.NoError(t, err)

	_, err = h.Handle(ctx, RegisterAccountCommand{Name: "Alice 2", Email: "ALICE@x.com", Password: "pw"})
	assert.ErrorIs(t, err, shared.ErrDuplicateEmail)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Len(t, welcome.calls, 1)
}

func TestRegister_EmptyFieldsRejected(t *testing.T) {
	h, store, _ := newRegister(t, &stubWelcome{})

	for _, cmd := range []RegisterAccountCommand{
		{Name: " ", Email: "a@b.com", Password: "pw"},
		{Name: "A", Email: "", Password: "pw"},
		{Name: "A", Email: "a@b.com", Password: "   "},
	} {
		_, err := h.Handle(context.Background(), cmd)
		assert.True(t, shared.IsValidation(err), "%+v", cmd)
	}

	n, err := store.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestUpdateProgress_LastWriteWins(t *testing.T) {
	store := jsonfile.NewProgressStore(t.TempDir())
	h := NewUpdateProgressHandler(store, nil)
	ctx := context.Background()

	cmd := UpdateProgressCommand{AccountID: "1", CareerID: "web_developer", SkillName: "HTML", Completed: true}
	require.NoError(t, h.Handle(ctx, cmd))
	cmd.Completed = false
	require.NoError(t, h.Handle(ctx, cmd))

	ap, err := store.GetForAccount(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, false, ap["web_developer"]["HTML"])
	assert.Len(t, ap["web_developer"], 1)
}

func TestUpdateProgress_AcceptsUnknownCatalogKeys(t *testing.T) {
	store := jsonfile.NewProgressStore(t.TempDir())
	h := NewUpdateProgressHandler(store, nil)

	require.NoError(t, h.Handle(context.Background(), UpdateProgressCommand{
		AccountID: "1", CareerID: "astronaut", SkillName: "Spacewalk", Completed: true,
	}))

	ap, err := store.GetForAccount(context.Background(), "1")
	require.NoError(t, err)
	assert.True(t, ap["astronaut"]["Spacewalk"])
}

func TestUpdateProgress_Validation(t *testing.T) {
	h := NewUpdateProgressHandler(jsonfile.NewProgressStore(t.TempDir()), nil)

	err := h.Handle(context.Background(), UpdateProgressCommand{AccountID: "1", SkillName: "HTML"})
	assert.True(t, shared.IsValidation(err))

	err = h.Handle(context.Background(), UpdateProgressCommand{AccountID: "1", CareerID: "web_developer"})
	assert.True(t, shared.IsValidation(err))
}

func TestParseCompleted(t *testing.T) {
	assert.True(t, ParseCompleted("true"))
	assert.False(t, ParseCompleted("True"))
	assert.False(t, ParseCompleted("1"))
	assert.False(t, ParseCompleted(""))
}
