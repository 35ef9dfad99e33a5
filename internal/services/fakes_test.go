package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/sociable-app/backend/internal/models"
	"github.com/sociable-app/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// errBoom stands in for an arbitrary storage failure in compensation tests.
var errBoom = errors.New("boom")

// In-memory repository fakes. They mirror the Mongo implementations
// closely enough for the services to behave identically: ErrNotFound for
// missing documents, $push/$pull semantics on back-reference arrays, and
// the same sort orders.

type fakeUserRepo struct {
	users   map[primitive.ObjectID]*models.User
	pushErr map[string]error // inject a failure for PushRef on a field
	pullErr map[string]error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:   make(map[primitive.ObjectID]*models.User),
		pushErr: make(map[string]error),
		pullErr: make(map[string]error),
	}
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Friendships == nil {
		user.Friendships = []primitive.ObjectID{}
	}
	if user.Posts == nil {
		user.Posts = []primitive.ObjectID{}
	}
	if user.Comments == nil {
		user.Comments = []primitive.ObjectID{}
	}
	if user.Reactions == nil {
		user.Reactions = []primitive.ObjectID{}
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeUserRepo) GetMany(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	out := []models.User{}
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateProfile(ctx context.Context, id primitive.ObjectID, name, bio string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if name != "" {
		u.Name = name
	}
	if bio != "" {
		u.Bio = bio
	}
	u.UpdatedAt = time.Now()
	return r.GetByID(ctx, id)
}

func (r *fakeUserRepo) SetProfilePicture(_ context.Context, id, pictureID primitive.ObjectID) error {
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	u.ProfilePicture = pictureID
	return nil
}

func (r *fakeUserRepo) refSlice(u *models.User, field string) *[]primitive.ObjectID {
	switch field {
	case repositories.UserRefFriendships:
		return &u.Friendships
	case repositories.UserRefPosts:
		return &u.Posts
	case repositories.UserRefComments:
		return &u.Comments
	case repositories.UserRefReactions:
		return &u.Reactions
	}
	return nil
}

func (r *fakeUserRepo) PushRef(_ context.Context, id primitive.ObjectID, field string, ref primitive.ObjectID) error {
	if err := r.pushErr[field]; err != nil {
		return err
	}
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	s := r.refSlice(u, field)
	*s = append(*s, ref)
	return nil
}

func (r *fakeUserRepo) PullRef(_ context.Context, id primitive.ObjectID, field string, ref primitive.ObjectID) error {
	if err := r.pullErr[field]; err != nil {
		return err
	}
	u, ok := r.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	s := r.refSlice(u, field)
	out := (*s)[:0]
	for _, v := range *s {
		if v != ref {
			out = append(out, v)
		}
	}
	*s = out
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

type fakeFriendshipRepo struct {
	edges map[primitive.ObjectID]*models.Friendship
}

func newFakeFriendshipRepo() *fakeFriendshipRepo {
	return &fakeFriendshipRepo{edges: make(map[primitive.ObjectID]*models.Friendship)}
}

func (r *fakeFriendshipRepo) Insert(_ context.Context, f *models.Friendship) error {
	if f.ID.IsZero() {
		f.ID = primitive.NewObjectID()
	}
	f.CreatedAt = time.Now()
	cp := *f
	r.edges[f.ID] = &cp
	return nil
}

func (r *fakeFriendshipRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Friendship, error) {
	f, ok := r.edges[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFriendshipRepo) GetByPair(_ context.Context, a, b primitive.ObjectID) (*models.Friendship, error) {
	for _, f := range r.edges {
		if (f.Requestor == a && f.Requestee == b) || (f.Requestor == b && f.Requestee == a) {
			cp := *f
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeFriendshipRepo) SetAccepted(_ context.Context, id primitive.ObjectID, at time.Time) error {
	f, ok := r.edges[id]
	if !ok {
		return repositories.ErrNotFound
	}
	f.Status = models.FriendshipFriends
	f.AcceptedAt = at
	return nil
}

func (r *fakeFriendshipRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.edges[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.edges, id)
	return nil
}

func (r *fakeFriendshipRepo) friendsOf(userID primitive.ObjectID) []models.Friendship {
	out := []models.Friendship{}
	for _, f := range r.edges {
		if f.Status != models.FriendshipFriends {
			continue
		}
		if f.Requestor == userID || f.Requestee == userID {
			out = append(out, *f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AcceptedAt.After(out[j].AcceptedAt)
	})
	return out
}

func (r *fakeFriendshipRepo) FindFriendsOf(_ context.Context, userID primitive.ObjectID, skip, limit int64) ([]models.Friendship, error) {
	all := r.friendsOf(userID)
	if skip >= int64(len(all)) {
		return []models.Friendship{}, nil
	}
	all = all[skip:]
	if limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeFriendshipRepo) CountFriendsOf(_ context.Context, userID primitive.ObjectID) (int64, error) {
	return int64(len(r.friendsOf(userID))), nil
}

func (r *fakeFriendshipRepo) FindAllOf(_ context.Context, userID primitive.ObjectID) ([]models.Friendship, error) {
	out := []models.Friendship{}
	for _, f := range r.edges {
		if f.Requestor == userID || f.Requestee == userID {
			out = append(out, *f)
		}
	}
	return out, nil
}

type fakePostRepo struct {
	posts   map[primitive.ObjectID]*models.Post
	pushErr map[string]error
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{
		posts:   make(map[primitive.ObjectID]*models.Post),
		pushErr: make(map[string]error),
	}
}

func (r *fakePostRepo) Insert(_ context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	if post.Comments == nil {
		post.Comments = []primitive.ObjectID{}
	}
	if post.Reactions == nil {
		post.Reactions = []primitive.ObjectID{}
	}
	cp := *post
	r.posts[post.ID] = &cp
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) List(_ context.Context, skip, limit int64) ([]models.Post, error) {
	all := []models.Post{}
	for _, p := range r.posts {
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	if skip >= int64(len(all)) {
		return []models.Post{}, nil
	}
	all = all[skip:]
	if limit < int64(len(all)) {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakePostRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.posts)), nil
}

func (r *fakePostRepo) ListByAuthor(_ context.Context, author primitive.ObjectID) ([]models.Post, error) {
	out := []models.Post{}
	for _, p := range r.posts {
		if p.Author == author {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) UpdateText(ctx context.Context, id primitive.ObjectID, text string) (*models.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	p.Text = text
	p.UpdatedAt = time.Now()
	return r.GetByID(ctx, id)
}

func (r *fakePostRepo) SetPicture(_ context.Context, id, pictureID primitive.ObjectID) error {
	p, ok := r.posts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Picture = pictureID
	return nil
}

func (r *fakePostRepo) UnsetPicture(_ context.Context, id primitive.ObjectID) error {
	p, ok := r.posts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	p.Picture = primitive.NilObjectID
	return nil
}

func (r *fakePostRepo) refSlice(p *models.Post, field string) *[]primitive.ObjectID {
	switch field {
	case repositories.PostRefComments:
		return &p.Comments
	case repositories.PostRefReactions:
		return &p.Reactions
	}
	return nil
}

func (r *fakePostRepo) PushRef(_ context.Context, id primitive.ObjectID, field string, ref primitive.ObjectID) error {
	if err := r.pushErr[field]; err != nil {
		return err
	}
	p, ok := r.posts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	s := r.refSlice(p, field)
	*s = append(*s, ref)
	return nil
}

func (r *fakePostRepo) PullRef(_ context.Context, id primitive.ObjectID, field string, ref primitive.ObjectID) error {
	p, ok := r.posts[id]
	if !ok {
		return repositories.ErrNotFound
	}
	s := r.refSlice(p, field)
	out := (*s)[:0]
	for _, v := range *s {
		if v != ref {
			out = append(out, v)
		}
	}
	*s = out
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.posts[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

type fakeCommentRepo struct {
	comments map[primitive.ObjectID]*models.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: make(map[primitive.ObjectID]*models.Comment)}
}

func (r *fakeCommentRepo) Insert(_ context.Context, comment *models.Comment) error {
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	cp := *comment
	r.comments[comment.ID] = &cp
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCommentRepo) ListByPost(_ context.Context, postID primitive.ObjectID) ([]models.Comment, error) {
	out := []models.Comment{}
	for _, c := range r.comments {
		if c.Post == postID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeCommentRepo) ListByAuthor(_ context.Context, author primitive.ObjectID) ([]models.Comment, error) {
	out := []models.Comment{}
	for _, c := range r.comments {
		if c.Author == author {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) UpdateText(ctx context.Context, id primitive.ObjectID, text string) (*models.Comment, error) {
	c, ok := r.comments[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c.Text = text
	c.UpdatedAt = time.Now()
	return r.GetByID(ctx, id)
}

func (r *fakeCommentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.comments[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

type fakeReactionRepo struct {
	reactions map[primitive.ObjectID]*models.Reaction
}

func newFakeReactionRepo() *fakeReactionRepo {
	return &fakeReactionRepo{reactions: make(map[primitive.ObjectID]*models.Reaction)}
}

func (r *fakeReactionRepo) Insert(_ context.Context, reaction *models.Reaction) error {
	if reaction.ID.IsZero() {
		reaction.ID = primitive.NewObjectID()
	}
	reaction.CreatedAt = time.Now()
	cp := *reaction
	r.reactions[reaction.ID] = &cp
	return nil
}

func (r *fakeReactionRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Reaction, error) {
	re, ok := r.reactions[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *re
	return &cp, nil
}

func (r *fakeReactionRepo) GetByUserPostType(_ context.Context, userID, postID primitive.ObjectID, reactionType string) (*models.Reaction, error) {
	for _, re := range r.reactions {
		if re.User == userID && re.Post == postID && re.Type == reactionType {
			cp := *re
			return &cp, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeReactionRepo) ListByPost(_ context.Context, postID primitive.ObjectID) ([]models.Reaction, error) {
	out := []models.Reaction{}
	for _, re := range r.reactions {
		if re.Post == postID {
			out = append(out, *re)
		}
	}
	return out, nil
}

func (r *fakeReactionRepo) ListByUser(_ context.Context, userID primitive.ObjectID) ([]models.Reaction, error) {
	out := []models.Reaction{}
	for _, re := range r.reactions {
		if re.User == userID {
			out = append(out, *re)
		}
	}
	return out, nil
}

func (r *fakeReactionRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.reactions[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.reactions, id)
	return nil
}

type fakePictureRepo struct {
	pictures map[primitive.ObjectID]*models.Picture
}

func newFakePictureRepo() *fakePictureRepo {
	return &fakePictureRepo{pictures: make(map[primitive.ObjectID]*models.Picture)}
}

func (r *fakePictureRepo) Insert(_ context.Context, picture *models.Picture) error {
	if picture.ID.IsZero() {
		picture.ID = primitive.NewObjectID()
	}
	picture.CreatedAt = time.Now()
	cp := *picture
	r.pictures[picture.ID] = &cp
	return nil
}

func (r *fakePictureRepo) GetByID(_ context.Context, id primitive.ObjectID) (*models.Picture, error) {
	p, ok := r.pictures[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakePictureRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.pictures[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.pictures, id)
	return nil
}
