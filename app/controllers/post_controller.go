package controllers

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"postboard/app/logging"
	"postboard/app/models"
	"postboard/app/presenters"
	"postboard/app/services"
	"postboard/app/views"

	"github.com/gorilla/mux"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	postService *services.PostService
	templates   map[string]*template.Template
}

// NewPostController creates a new PostController
func NewPostController(postService *services.PostService) *PostController {
	return &PostController{
		postService: postService,
		templates:   views.MustLoad(),
	}
}

// degradedList is the listing answer when the posts cannot be served.
type degradedList struct {
	Error   string            `json:"error"`
	Posts   []models.BlogPost `json:"posts"`
	Total   int               `json:"total"`
	HasMore bool              `json:"hasMore"`
}

func sendDegraded(w http.ResponseWriter, message string, status int) {
	sendJSON(w, status, degradedList{Error: message, Posts: []models.BlogPost{}})
}

// indexPage is the data of the card grid.
type indexPage struct {
	Author   *models.EnhancedUser
	Cards    []models.PostModel
	Total    int
	HasMore  bool
	Search   string
	UserID   int
	MoreURL  string
	ClearURL string
}

// Index renders the card grid. ?page=N shows N load-more increments,
// ?userId narrows to one owner and ?search switches to search mode.
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	if isAPIRequest(r) {
		pc.List(w, r)
		return
	}

	q := r.URL.Query()
	userID, _ := strconv.Atoi(q.Get("userId"))
	if userID < 0 {
		userID = 0
	}
	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}
	search := q.Get("search")

	ctx := r.Context()
	feed := services.NewFeed(pc.postService, services.WithOwner(userID))
	err := feed.Start(ctx)
	for i := 1; err == nil && i < page && feed.HasMore(); i++ {
		err = feed.LoadMore(ctx)
	}
	if err == nil && search != "" {
		err = feed.SetSearch(ctx, search)
	}
	if err != nil {
		logging.Logger.ErrorContext(ctx, "failed to load posts", slog.Any("error", err))
		sendError(w, r, pc.templates, "Failed to fetch posts", http.StatusInternalServerError)
		return
	}

	var author *models.EnhancedUser
	if userID > 0 {
		// The header is optional; the listing is still served without it.
		if author, err = pc.postService.Author(ctx, userID); err != nil {
			logging.Logger.WarnContext(ctx, "failed to load author", slog.Int("user_id", userID), slog.Any("error", err))
		}
	}

	data := indexPage{
		Author:   author,
		Cards:    presenters.Cards(feed.Visible()),
		Total:    feed.Total(),
		HasMore:  feed.HasMore(),
		Search:   feed.Search(),
		UserID:   userID,
		MoreURL:  listURL(userID, feed.Page()+1, ""),
		ClearURL: listURL(userID, feed.Page(), ""),
	}
	render(w, r, pc.templates, "index", http.StatusOK, data)
}

func listURL(userID, page int, search string) string {
	v := url.Values{}
	if userID > 0 {
		v.Set("userId", strconv.Itoa(userID))
	}
	if page > 1 {
		v.Set("page", strconv.Itoa(page))
	}
	if search != "" {
		v.Set("search", search)
	}
	if len(v) == 0 {
		return "/posts"
	}
	return "/posts?" + v.Encode()
}

// List answers the listing query with {posts, total, hasMore}, or the
// degraded shape when the query is invalid or the fetch fails.
func (pc *PostController) List(w http.ResponseWriter, r *http.Request) {
	query, err := services.ParseListQuery(r.URL.Query())
	if err != nil {
		sendDegraded(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := pc.postService.List(r.Context(), query)
	if err != nil {
		logging.Logger.ErrorContext(r.Context(), "Error fetching posts", slog.Any("error", err))
		sendDegraded(w, "Failed to fetch posts", http.StatusInternalServerError)
		return
	}
	sendJSON(w, http.StatusOK, result)
}

// showPage is the data of the detail page.
type showPage struct {
	Post      models.BlogPost
	Author    *models.EnhancedUser
	Comments  []presenters.CommentView
	Form      models.NewComment
	FormError string
}

// Show handles displaying a single post
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		sendError(w, r, pc.templates, "Invalid post ID", http.StatusBadRequest)
		return
	}

	detail, ok := pc.loadDetail(w, r, id)
	if !ok {
		return
	}

	if isAPIRequest(r) {
		sendJSON(w, http.StatusOK, detail.Post)
		return
	}
	pc.renderShow(w, r, detail, models.NewComment{}, "", http.StatusOK)
}

// loadDetail writes the error response itself and reports false on failure.
func (pc *PostController) loadDetail(w http.ResponseWriter, r *http.Request, id int) (*services.PostDetail, bool) {
	detail, err := pc.postService.PostDetail(r.Context(), id)
	if errors.Is(err, services.ErrPostNotFound) {
		sendError(w, r, pc.templates, "Post not found", http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		logging.Logger.ErrorContext(r.Context(), "failed to load post", slog.Int("post_id", id), slog.Any("error", err))
		sendError(w, r, pc.templates, "Failed to fetch post", http.StatusInternalServerError)
		return nil, false
	}
	return detail, true
}

func (pc *PostController) renderShow(w http.ResponseWriter, r *http.Request, detail *services.PostDetail, form models.NewComment, formError string, status int) {
	render(w, r, pc.templates, "show", status, showPage{
		Post:      detail.Post,
		Author:    detail.Author,
		Comments:  presenters.Comments(detail.Comments),
		Form:      form,
		FormError: formError,
	})
}
