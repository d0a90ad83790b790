package services_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/RahimovIlhom/instagram-clone/internal/domain/entities"
	domainerrors "github.com/RahimovIlhom/instagram-clone/internal/domain/errors"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/ports"
	"github.com/RahimovIlhom/instagram-clone/internal/domain/repositories"
	"github.com/RahimovIlhom/instagram-clone/internal/services"
)

var _ = Describe("Authorizer", func() {
	authorizer := services.NewAuthorizer()
	owner := &entities.User{ID: "owner", Role: entities.RoleSimple}
	stranger := &entities.User{ID: "stranger", Role: entities.RoleSimple}
	manager := &entities.User{ID: "manager", Role: entities.RoleManager}
	admin := &entities.User{ID: "admin", Role: entities.RoleAdmin}

	post := &entities.Post{ID: "p1", AuthorID: "owner"}
	comment := &entities.Comment{ID: "c1", AuthorID: "owner"}
	postLike := &entities.Like{ID: "l1", AuthorID: "owner", TargetKind: entities.ResourcePost}
	commentLike := &entities.Like{ID: "l2", AuthorID: "owner", TargetKind: entities.ResourceComment}

	DescribeTable("Authorize",
		func(actor *entities.User, action services.Action, resource entities.OwnedResource, expected error) {
			err := authorizer.Authorize(actor, action, resource)
			if expected == nil {
				Expect(err).NotTo(HaveOccurred())
				return
			}
			Expect(err).To(MatchError(expected))
		},
		Entry("owner updates post", owner, services.ActionUpdate, post, nil),
		Entry("owner deletes comment", owner, services.ActionDelete, comment, nil),
		Entry("owner removes like", owner, services.ActionDelete, postLike, nil),
		Entry("stranger updates post", stranger, services.ActionUpdate, post, domainerrors.ErrForbidden),
		Entry("stranger deletes post", stranger, services.ActionDelete, post, domainerrors.ErrForbidden),
		Entry("manager deletes post", manager, services.ActionDelete, post, nil),
		Entry("manager deletes comment", manager, services.ActionDelete, comment, nil),
		Entry("admin updates post", admin, services.ActionUpdate, post, domainerrors.ErrForbidden),
		Entry("admin removes post like", admin, services.ActionDelete, postLike, domainerrors.ErrForbidden),
		Entry("admin removes comment like", admin, services.ActionDelete, commentLike, domainerrors.ErrForbidden),
		Entry("anonymous", nil, services.ActionDelete, post, domainerrors.ErrUnauthorized),
	)
})

var _ = Describe("Content services", func() {
	var (
		env    *testEnv
		author *entities.User
		reader *entities.User
	)

	BeforeEach(func() {
		env = newTestEnv()
		author = env.newUser("author", entities.AuthStatusDone)
		reader = env.newUser("reader", entities.AuthStatusDone)
	})

	Describe("PostService", func() {
		It("uploads the image and creates the post", func() {
			view := env.newPost(author, "hello")

			Expect(view.Post.Image).To(HavePrefix("http://localhost:8080/media/post_images/"))
			Expect(view.Post.Author.ID).To(Equal(author.ID))

			found, err := env.posts.Get(env.ctx, view.Post.ID, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Post.Caption).To(Equal("hello"))
		})

		It("validates the upload", func() {
			_, err := env.posts.Create(env.ctx, author, "x", services.PhotoUpload{})
			Expect(err).To(MatchError(domainerrors.ErrImageRequired))

			_, err = env.posts.Create(env.ctx, author, "x", imageUpload("photo.heic"))
			Expect(err).To(MatchError(domainerrors.ErrUnsupportedImageType))

			_, err = env.posts.Create(env.ctx, author, strings.Repeat("a", entities.MaxCaptionLength+1), imageUpload("photo.png"))
			Expect(err).To(MatchError(domainerrors.ErrCaptionTooLong))
		})

		It("lists posts newest first with pagination", func() {
			for _, caption := range []string{"one", "two", "three"} {
				env.newPost(author, caption)
			}
			env.newPost(reader, "other")

			views, total, err := env.posts.List(env.ctx, repositories.PostFilters{
				AuthorID: &author.ID,
				Page:     repositories.Page{Limit: 2},
			}, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(BeEquivalentTo(3))
			Expect(views).To(HaveLen(2))
			for _, v := range views {
				Expect(v.Post.AuthorID).To(Equal(author.ID))
			}
		})

		It("only lets the author change the caption", func() {
			view := env.newPost(author, "before")

			_, err := env.posts.UpdateCaption(env.ctx, reader, view.Post.ID, "hijack")
			Expect(err).To(MatchError(domainerrors.ErrForbidden))
			Expect(domainerrors.KindOf(err)).To(Equal(domainerrors.KindForbidden))

			updated, err := env.posts.UpdateCaption(env.ctx, author, view.Post.ID, "after")
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Post.Caption).To(Equal("after"))
		})

		It("lets staff delete any post", func() {
			view := env.newPost(author, "bye")
			admin := env.newUser("admin", entities.AuthStatusDone)
			admin.Role = entities.RoleAdmin

			Expect(env.posts.Delete(env.ctx, reader, view.Post.ID)).To(MatchError(domainerrors.ErrForbidden))
			Expect(env.posts.Delete(env.ctx, admin, view.Post.ID)).To(Succeed())

			_, err := env.posts.Get(env.ctx, view.Post.ID, "")
			Expect(err).To(MatchError(domainerrors.ErrPostNotFound))
		})
	})

	Describe("CommentService", func() {
		var post *services.PostView

		BeforeEach(func() {
			post = env.newPost(author, "comment me")
		})

		It("builds the reply tree up to the configured depth", func() {
			root, err := env.comments.Create(env.ctx, reader, post.Post.ID, "level 1", nil)
			Expect(err).NotTo(HaveOccurred())

			parent := root.Comment.ID
			for _, text := range []string{"level 2", "level 3", "level 4"} {
				node, err := env.comments.Create(env.ctx, author, post.Post.ID, text, &parent)
				Expect(err).NotTo(HaveOccurred())
				parent = node.Comment.ID
			}

			tree, total, err := env.comments.ListTree(env.ctx, post.Post.ID, repositories.Page{}, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(BeEquivalentTo(1))
			Expect(tree).To(HaveLen(1))

			level2 := tree[0].Replies
			Expect(level2).To(HaveLen(1))
			level3 := level2[0].Replies
			Expect(level3).To(HaveLen(1))
			Expect(level3[0].Comment.Text).To(Equal("level 3"))
			Expect(level3[0].Replies).To(BeEmpty())
		})

		It("rejects a parent from another post", func() {
			other := env.newPost(author, "other")
			foreign, err := env.comments.Create(env.ctx, reader, other.Post.ID, "elsewhere", nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = env.comments.Create(env.ctx, reader, post.Post.ID, "reply", &foreign.Comment.ID)
			Expect(err).To(MatchError(domainerrors.ErrParentPostMismatch))
		})

		It("validates the text", func() {
			_, err := env.comments.Create(env.ctx, reader, post.Post.ID, "", nil)
			Expect(err).To(MatchError(domainerrors.ErrCommentEmpty))

			_, err = env.comments.Create(env.ctx, reader, post.Post.ID, strings.Repeat("a", entities.MaxCommentLength+1), nil)
			Expect(err).To(MatchError(domainerrors.ErrCommentTooLong))
		})

		It("notifies the post author about comments from others", func() {
			_, err := env.comments.Create(env.ctx, author, post.Post.ID, "own", nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(env.activity.Events()).To(BeEmpty())

			node, err := env.comments.Create(env.ctx, reader, post.Post.ID, "nice", nil)
			Expect(err).NotTo(HaveOccurred())

			events := env.activity.Events()
			Expect(events).To(HaveLen(1))
			Expect(events[0].Type).To(Equal(ports.ActivityCommentCreated))
			Expect(events[0].RecipientID).To(Equal(author.ID))
			Expect(events[0].CommentID).To(Equal(node.Comment.ID))
		})

		It("deletes a comment with its replies", func() {
			root, err := env.comments.Create(env.ctx, reader, post.Post.ID, "root", nil)
			Expect(err).NotTo(HaveOccurred())
			_, err = env.comments.Create(env.ctx, author, post.Post.ID, "reply", &root.Comment.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(env.comments.Delete(env.ctx, author, root.Comment.ID)).To(MatchError(domainerrors.ErrForbidden))
			Expect(env.comments.Delete(env.ctx, reader, root.Comment.ID)).To(Succeed())

			view, err := env.posts.Get(env.ctx, post.Post.ID, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Stats.Comments).To(BeZero())
		})

		It("reports missing posts", func() {
			_, _, err := env.comments.ListTree(env.ctx, "missing", repositories.Page{}, "")
			Expect(err).To(MatchError(domainerrors.ErrPostNotFound))
		})
	})

	Describe("LikeService", func() {
		It("toggles a post like and reports it in the stats", func() {
			post := env.newPost(author, "like me")

			liked, err := env.likes.TogglePostLike(env.ctx, reader, post.Post.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(liked).To(BeTrue())

			view, err := env.posts.Get(env.ctx, post.Post.ID, reader.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Stats.Likes).To(BeEquivalentTo(1))
			Expect(view.Stats.MeLike).To(BeTrue())

			likes, total, err := env.likes.ListPostLikes(env.ctx, post.Post.ID, repositories.Page{})
			Expect(err).NotTo(HaveOccurred())
			Expect(total).To(BeEquivalentTo(1))
			Expect(likes[0].AuthorID).To(Equal(reader.ID))

			liked, err = env.likes.TogglePostLike(env.ctx, reader, post.Post.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(liked).To(BeFalse())

			view, err = env.posts.Get(env.ctx, post.Post.ID, reader.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Stats.Likes).To(BeZero())
		})

		It("publishes activity only when liking someone else's content", func() {
			post := env.newPost(author, "activity")
			comment, err := env.comments.Create(env.ctx, author, post.Post.ID, "mine", nil)
			Expect(err).NotTo(HaveOccurred())

			_, err = env.likes.TogglePostLike(env.ctx, author, post.Post.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(env.activity.Events()).To(BeEmpty())

			_, err = env.likes.ToggleCommentLike(env.ctx, reader, comment.Comment.ID)
			Expect(err).NotTo(HaveOccurred())

			events := env.activity.Events()
			Expect(events).To(HaveLen(1))
			Expect(events[0].Type).To(Equal(ports.ActivityCommentLiked))
			Expect(events[0].PostID).To(Equal(post.Post.ID))
		})

		It("reports missing targets", func() {
			_, err := env.likes.TogglePostLike(env.ctx, reader, "missing")
			Expect(err).To(MatchError(domainerrors.ErrPostNotFound))

			_, err = env.likes.ToggleCommentLike(env.ctx, reader, "missing")
			Expect(err).To(MatchError(domainerrors.ErrCommentNotFound))
		})
	})

	Describe("SaveService", func() {
		It("toggles a post in the default collection", func() {
			post := env.newPost(author, "save me")

			saved, err := env.saves.ToggleSave(env.ctx, reader.ID, post.Post.ID, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(saved).To(BeTrue())

			collections, err := env.saves.ListCollections(env.ctx, reader.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(collections).To(HaveLen(1))
			Expect(collections[0].Name).To(Equal(entities.DefaultCollectionName))
			Expect(collections[0].PostIDs).To(ConsistOf(post.Post.ID))

			saved, err = env.saves.ToggleSave(env.ctx, reader.ID, post.Post.ID, "  ")
			Expect(err).NotTo(HaveOccurred())
			Expect(saved).To(BeFalse())

			collections, err = env.saves.ListCollections(env.ctx, reader.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(collections[0].PostIDs).To(BeEmpty())
		})

		It("keeps named collections apart", func() {
			post := env.newPost(author, "travel")

			_, err := env.saves.ToggleSave(env.ctx, reader.ID, post.Post.ID, "travel")
			Expect(err).NotTo(HaveOccurred())
			_, err = env.saves.ToggleSave(env.ctx, reader.ID, post.Post.ID, "food")
			Expect(err).NotTo(HaveOccurred())

			collections, err := env.saves.ListCollections(env.ctx, reader.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(collections).To(HaveLen(2))

			view, err := env.posts.Get(env.ctx, post.Post.ID, "")
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Stats.Saves).To(BeEquivalentTo(2))
		})

		It("reports missing posts", func() {
			_, err := env.saves.ToggleSave(env.ctx, reader.ID, "missing", "")
			Expect(err).To(MatchError(domainerrors.ErrPostNotFound))
		})
	})

	Describe("UserService", func() {
		It("only lets the account owner or an admin delete it", func() {
			Expect(env.users.DeleteUser(env.ctx, reader, author.ID)).To(MatchError(domainerrors.ErrForbidden))

			admin := env.newUser("admin", entities.AuthStatusDone)
			admin.Role = entities.RoleAdmin
			Expect(env.users.DeleteUser(env.ctx, admin, author.ID)).To(Succeed())

			_, err := env.users.GetUser(env.ctx, author.ID)
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})

		It("removes the user's content in cascade", func() {
			post := env.newPost(author, "gone")
			_, err := env.likes.TogglePostLike(env.ctx, reader, post.Post.ID)
			Expect(err).NotTo(HaveOccurred())

			Expect(env.users.DeleteUser(env.ctx, author, author.ID)).To(Succeed())

			_, err = env.posts.Get(env.ctx, post.Post.ID, "")
			Expect(err).To(MatchError(domainerrors.ErrPostNotFound))
			Expect(env.users.DeleteUser(env.ctx, author, author.ID)).To(MatchError(domainerrors.ErrUserNotFound))
		})
	})
})
