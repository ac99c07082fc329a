package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"postboard/app/models"
	"postboard/app/presenters"
	"postboard/app/services"

	"github.com/gorilla/mux"
	"github.com/gorilla/schema"
)

var formDecoder = newFormDecoder()

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

// CommentController handles HTTP requests for comments
type CommentController struct {
	commentService *services.CommentService
	posts          *PostController
}

// NewCommentController creates a new CommentController. Failed form
// submissions re-render the post page through posts.
func NewCommentController(commentService *services.CommentService, posts *PostController) *CommentController {
	return &CommentController{
		commentService: commentService,
		posts:          posts,
	}
}

// Index handles listing all comments for a post: remote ones first, then
// local ones.
func (cc *CommentController) Index(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(mux.Vars(r)["postId"])
	if err != nil {
		sendError(w, r, cc.posts.templates, "Invalid post ID", http.StatusBadRequest)
		return
	}

	comments, err := cc.commentService.List(r.Context(), postID)
	if err != nil {
		sendError(w, r, cc.posts.templates, "Failed to fetch comments", http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusOK, presenters.Comments(comments))
}

// Create handles a new comment, as JSON from API callers or as a form post.
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.Atoi(mux.Vars(r)["postId"])
	if err != nil {
		sendError(w, r, cc.posts.templates, "Invalid post ID", http.StatusBadRequest)
		return
	}

	var form models.NewComment
	api := isAPIRequest(r)
	if api {
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			sendError(w, r, nil, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			sendError(w, r, cc.posts.templates, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := formDecoder.Decode(&form, r.PostForm); err != nil {
			sendError(w, r, cc.posts.templates, "Failed to parse form: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	comment, err := cc.commentService.Submit(r.Context(), postID, form)
	var verr *models.ValidationError
	switch {
	case errors.As(err, &verr):
		if api {
			sendJSON(w, http.StatusBadRequest, map[string]interface{}{"error": verr.Error(), "fields": verr.Fields})
			return
		}
		detail, ok := cc.posts.loadDetail(w, r, postID)
		if !ok {
			return
		}
		cc.posts.renderShow(w, r, detail, form, verr.Error(), http.StatusBadRequest)
		return
	case err != nil:
		sendError(w, r, cc.posts.templates, "Failed to save comment", http.StatusInternalServerError)
		return
	}

	if api {
		sendJSON(w, http.StatusCreated, presenters.Comment(*comment))
		return
	}
	http.Redirect(w, r, "/posts/"+strconv.Itoa(postID)+"#comments", http.StatusSeeOther)
}
