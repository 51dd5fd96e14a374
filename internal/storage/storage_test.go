package storage_test

import (
	"chatline/backend/internal/models"
	"chatline/backend/internal/storage"
	"chatline/backend/internal/storage/storagetest"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func privateChat(a, b uint) *models.Chat {
	return &models.Chat{
		Type:      models.ChatTypePrivate,
		PairKey:   lo.ToPtr(models.PrivatePairKey(a, b)),
		CreatedBy: a,
	}
}

func TestListUsers_ExcludesCallerAndSortsByName(t *testing.T) {
	s := storagetest.New(t)
	ctx := context.Background()

	caller := storagetest.SeedUser(t, s, "Mallory", "mallory@example.com")
	storagetest.SeedUser(t, s, "Zoe", "zoe@example.com")
	storagetest.SeedUser(t, s, "Alice", "alice@example.com")

	users, err := s.ListUsers(ctx, caller.ID, "")
	require.NoError(t, err)

	names := lo.Map(users, func(u models.User, _ int) string { return u.Name })
	assert.Equal(t, []string{"Alice", "Zoe"}, names)
}

func TestListUsers_SearchIsCaseInsensitiveOnNameOrEmail(t *testing.T) {
	s := storagetest.New(t)
	ctx := context.Background()

	caller := storagetest.SeedUser(t, s, "Caller", "caller@example.com")
	storagetest.SeedUser(t, s, "Bob Stone", "bob@example.com")
	storagetest.SeedUser(t, s, "Carol", "carol@STONEMAIL.org")
	storagetest.SeedUser(t, s, "Dave", "dave@example.com")

	users, err := s.ListUsers(ctx, caller.ID, "  stONe ")
	require.NoError(t, err)

	names := lo.Map(users, func(u models.User, _ int) string { return u.Name })
	assert.Equal(t, []string{"Bob Stone", "Carol"}, names)
}

func TestListUsers_SearchTreatsWildcardsLiterally(t *testing.T) {
	s := storagetest.New(t)
	ctx := context.Background()

	caller := storagetest.SeedUser(t, s, "Caller", "caller@example.com")
	storagetest.SeedUser(t, s, "Under_score", "u@example.com")
	storagetest.SeedUser(t, s, "Plain", "plain@example.com")

	users, err := s.ListUsers(ctx, caller.ID, "_")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "Under_score", users[0].Name)

	users, err = s.ListUsers(ctx, caller.ID, "%")
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestGetUserByID_NotFound(t *testing.T) {
	s := storagetest.New(t)

	_, err := s.GetUserByID(context.Background(), 404)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCountUsers(t *testing.T) {
	s := storagetest.New(t)
	ctx := context.Background()

	a := storagetest.SeedUser(t, s, "A", "a@example.com")
	b := storagetest.SeedUser(t, s, "B", "b@example.com")

	count, err := s.CountUsers(ctx, []uint{a.ID, b.ID, 999})
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	count, err = s.CountUsers(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateChat_InsertsMembership(t *testing.T) {
	s := storagetest.New(t)
	ctx := context.Background()

	a := storagetest.SeedUser(t, s, "A", "a@example.com")
	b := storagetest.SeedUser(t, s, "B", "b@example.com")
	c := storagetest.SeedUser(t, s, "C", "c@example.com")

	chat := &models.Chat{Type: models.ChatTypeGroup, Name: lo.ToPtr("crew"), CreatedBy: a.ID}
	require.NoError(t, s.CreateChat(ctx, chat, []uint{a.ID, b.ID, b.ID}))
	require.NotZero(t, chat.ID)

	for _, id := range []uint{a.ID, b.ID} {
		ok, err := s.IsMember(ctx, chat.ID, id)
		require.NoError(t, err)
		assert.True(t, ok)
	}
	ok, err := s.IsMember(ctx, chat.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	var rows int64
	require.NoError(t, s.DB.Model(&models.ChatUser{}).Where("chat_id = ?", chat.ID).Count(&rows).Error)
	assert.EqualValues(t, 2, rows)
}

func TestCreateChat_DuplicatePairRejectedByIndex(t *testing.T) {
	s := storagetest.New(t)
	ctx := context.Background()

	a := storagetest.SeedUser(t, s, "A", "a@example.com")
	b := storagetest.SeedUser(t, s, "B", "b@example.com")

	first := privateChat(a.ID, b.ID)
	require.NoError(t, s.CreateChat(ctx, first, []uint{a.ID, b.ID}))

	second := privateChat(b.ID, a.ID)
	err := s.CreateChat(ctx, second, []uint{b.ID, a.ID})
	assert.ErrorIs(t, err, storage.ErrDuplicatePair)
	assert.Zero(t, second.ID)

	var chats int64
	require.NoError(t, s.DB.Model(&models.Chat{}).Count(&chats).Error)
	assert.EqualValues(t, 1, chats)

	found, err := s.FindPrivateChat(ctx, models.PrivatePairKey(b.ID, a.ID))
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestCreateChat_GroupsMayShareNullPairKey(t *testing.T) {
	s := storagetest.New(t)
	ctx := context.Background()

	a := storagetest.SeedUser(t, s, "A", "a@example.com")
	b := storagetest.SeedUser(t, s, "B", "b@example.com")

	for i := 0; i < 2; i++ {
		chat := &models.Chat{Type: models.ChatTypeGroup, CreatedBy: a.ID}
		require.NoError(t, s.CreateChat(ctx, chat, []uint{a.ID, b.ID}))
	}
}

func TestCreateChat_RollsBackChatWhenMembershipFails(t *testing.T) {
	s := storagetest.New(t)
	ctx := context.Background()

	a := storagetest.SeedUser(t, s, "A", "a@example.com")
	b := storagetest.SeedUser(t, s, "B", "b@example.com")

	boom := errors.New("membership insert failed")
	err := s.DB.Callback().Create().Before("gorm:create").Register("test:fail_chat_users", func(tx *gorm.DB) {
		if tx.Statement.Table == "chat_users" {
			_ = tx.AddError(boom)
		}
	})
	require.NoError(t, err)

	chat := &models.Chat{Type: models.ChatTypeGroup, Name: lo.ToPtr("doomed"), CreatedBy: a.ID}
	err = s.CreateChat(ctx, chat, []uint{a.ID, b.ID})
	assert.ErrorIs(t, err, boom)

	var chats int64
	require.NoError(t, s.DB.Model(&models.Chat{}).Count(&chats).Error)
	assert.Zero(t, chats, "chat row must not survive a failed membership insert")
}

func TestFindPrivateChat_NotFound(t *testing.T) {
	s := storagetest.New(t)

	_, err := s.FindPrivateChat(context.Background(), "1:2")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestListChatsForUser_OnlyMemberChatsNewestFirst(t *testing.T) {
	s := storagetest.New(t)
	ctx := context.Background()

	a := storagetest.SeedUser(t, s, "A", "a@example.com")
	b := storagetest.SeedUser(t, s, "B", "b@example.com")
	c := storagetest.SeedUser(t, s, "C", "c@example.com")

	ab := privateChat(a.ID, b.ID)
	require.NoError(t, s.CreateChat(ctx, ab, []uint{a.ID, b.ID}))
	bc := privateChat(b.ID, c.ID)
	require.NoError(t, s.CreateChat(ctx, bc, []uint{b.ID, c.ID}))
	ac := privateChat(a.ID, c.ID)
	require.NoError(t, s.CreateChat(ctx, ac, []uint{a.ID, c.ID}))

	// Activity in ab moves it to the top.
	msg := &models.Message{ChatID: ab.ID, UserID: a.ID, Content: "bump", CreatedAt: time.Now().Add(time.Minute)}
	require.NoError(t, s.CreateMessage(ctx, msg))

	chats, err := s.ListChatsForUser(ctx, a.ID)
	require.NoError(t, err)

	ids := lo.Map(chats, func(c models.Chat, _ int) uint { return c.ID })
	assert.Equal(t, []uint{ab.ID, ac.ID}, ids)
	assert.NotContains(t, ids, bc.ID)
}

func TestListParticipants_ExcludesCaller(t *testing.T) {
	s := storagetest.New(t)
	ctx := context.Background()

	a := storagetest.SeedUser(t, s, "A", "a@example.com")
	b := storagetest.SeedUser(t, s, "B", "b@example.com")
	c := storagetest.SeedUser(t, s, "C", "c@example.com")

	group := &models.Chat{Type: models.ChatTypeGroup, CreatedBy: a.ID}
	require.NoError(t, s.CreateChat(ctx, group, []uint{a.ID, b.ID, c.ID}))

	others, err := s.ListParticipants(ctx, []uint{group.ID}, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Participant{
		{ID: b.ID, Name: "B", Email: "b@example.com"},
		{ID: c.ID, Name: "C", Email: "c@example.com"},
	}, others[group.ID])

	all, err := s.ListParticipants(ctx, []uint{group.ID}, 0)
	require.NoError(t, err)
	assert.Len(t, all[group.ID], 3)

	empty, err := s.ListParticipants(ctx, nil, a.ID)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestMessages_CountLastAndList(t *testing.T) {
	s := storagetest.New(t)
	ctx := context.Background()

	a := storagetest.SeedUser(t, s, "A", "a@example.com")
	b := storagetest.SeedUser(t, s, "B", "b@example.com")

	busy := privateChat(a.ID, b.ID)
	require.NoError(t, s.CreateChat(ctx, busy, []uint{a.ID, b.ID}))
	quiet := &models.Chat{Type: models.ChatTypeGroup, CreatedBy: a.ID}
	require.NoError(t, s.CreateChat(ctx, quiet, []uint{a.ID, b.ID}))

	for _, body := range []string{"one", "two", "three"} {
		require.NoError(t, s.CreateMessage(ctx, &models.Message{ChatID: busy.ID, UserID: b.ID, Content: body}))
	}

	counts, err := s.CountMessages(ctx, []uint{busy.ID, quiet.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 3, counts[busy.ID])
	assert.Zero(t, counts[quiet.ID])

	last, err := s.LastMessages(ctx, []uint{busy.ID, quiet.ID})
	require.NoError(t, err)
	assert.Equal(t, "three", last[busy.ID].Content)
	assert.Equal(t, b.ID, last[busy.ID].UserID)
	_, ok := last[quiet.ID]
	assert.False(t, ok)

	messages, err := s.ListMessages(ctx, busy.ID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, "one", messages[0].Content)
	assert.Equal(t, "three", messages[2].Content)
	require.NotNil(t, messages[0].User)
	assert.Equal(t, "B", messages[0].User.Name)
}

func TestCreateMessage_TouchesChatAndLoadsAuthor(t *testing.T) {
	s := storagetest.New(t)
	ctx := context.Background()

	a := storagetest.SeedUser(t, s, "A", "a@example.com")
	b := storagetest.SeedUser(t, s, "B", "b@example.com")

	chat := privateChat(a.ID, b.ID)
	require.NoError(t, s.CreateChat(ctx, chat, []uint{a.ID, b.ID}))

	sentAt := chat.UpdatedAt.Add(time.Hour)
	msg := &models.Message{ChatID: chat.ID, UserID: a.ID, Content: "hi", CreatedAt: sentAt}
	require.NoError(t, s.CreateMessage(ctx, msg))

	require.NotNil(t, msg.User)
	assert.Equal(t, "A", msg.User.Name)

	reloaded, err := s.GetChat(ctx, chat.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.UpdatedAt.Equal(sentAt), "updated_at should follow the last message")
}

func TestPublishMessage_WithoutRedisIsNoop(t *testing.T) {
	s := storagetest.New(t)

	assert.NoError(t, s.PublishMessage(context.Background(), models.Message{ChatID: 1, Content: "hi"}))
	assert.Equal(t, "chat:42", storage.ChatChannel(42))
}

func TestGetChat_NotFound(t *testing.T) {
	s := storagetest.New(t)

	_, err := s.GetChat(context.Background(), 1)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
