package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"

	"github.com/yutingli1123/plumasphere-go/api"
	"github.com/yutingli1123/plumasphere-go/internal/config"
	"github.com/yutingli1123/plumasphere-go/notify"
	"github.com/yutingli1123/plumasphere-go/profile"
	"github.com/yutingli1123/plumasphere-go/session"
	"github.com/yutingli1123/plumasphere-go/siteconfig"
	"github.com/yutingli1123/plumasphere-go/store/filestore"
	"github.com/yutingli1123/plumasphere-go/transport"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

// app holds the wired client services.
type app struct {
	cfg      *config.Config
	log      zerolog.Logger
	session  *session.Manager
	profile  *profile.Cache
	config   *siteconfig.Cache
	auth     *api.AuthAPI
	system   *api.SystemAPI
	posts    *api.PostAPI
	comments *api.CommentAPI
	likes    *api.LikeAPI
	tags     *api.TagAPI
	users    *api.UserAPI
	notify   *notify.Service
}

func run(args []string) error {
	if len(args) == 0 {
		usage()
		return nil
	}

	cfg, err := config.New()
	if err != nil {
		return err
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.Level(cfg.LogLevel)).
		With().Timestamp().Logger()

	a, err := wire(cfg, log)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return a.dispatch(ctx, args[0], args[1:])
}

// wire builds the service graph. The transport and the session manager
// reference each other, so the session is bound to the transport after both
// exist.
func wire(cfg *config.Config, log zerolog.Logger) (*app, error) {
	kv, err := filestore.New(cfg.DataDir, "state.json")
	if err != nil {
		return nil, err
	}

	notifier := transport.NotifierFunc(func(kind transport.Kind, message string) {
		fmt.Fprintf(os.Stderr, "! %s\n", message)
	})

	client, err := transport.New(cfg.APIBaseURL,
		transport.WithTimeout(cfg.HTTPTimeout),
		transport.WithNotifier(notifier),
		transport.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}

	authAPI := api.NewAuthAPI(client)
	userAPI := api.NewUserAPI(client)
	systemAPI := api.NewSystemAPI(client)

	profileCache, err := profile.New(userAPI, profile.WithLogger(log))
	if err != nil {
		return nil, err
	}

	sessionManager, err := session.NewManager(kv, authAPI,
		session.WithProfileCache(profileCache),
		session.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	client.BindSession(sessionManager)

	configCache, err := siteconfig.New(kv, systemAPI, siteconfig.WithLogger(log))
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:      cfg,
		log:      log,
		session:  sessionManager,
		profile:  profileCache,
		config:   configCache,
		auth:     authAPI,
		system:   systemAPI,
		posts:    api.NewPostAPI(client),
		comments: api.NewCommentAPI(client),
		likes:    api.NewLikeAPI(client),
		tags:     api.NewTagAPI(client),
		users:    userAPI,
		notify:   notify.New(cfg.WSBaseURL, notify.WithLogger(log)),
	}, nil
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.cmdLogin(ctx, args)
	case "logout":
		a.session.Logout()
		fmt.Println("Logged out.")
		return nil
	case "whoami":
		return a.cmdWhoami(ctx)
	case "posts":
		return a.cmdPosts(ctx, args)
	case "post":
		return a.cmdPost(ctx, args)
	case "comments":
		return a.cmdComments(ctx, args)
	case "comment":
		return a.cmdComment(ctx, args)
	case "like":
		return a.cmdLike(ctx, args)
	case "tags":
		return a.cmdTags(ctx)
	case "status":
		return a.cmdStatus(ctx)
	case "watch":
		return a.cmdWatch(ctx, args)
	case "help", "-h", "--help":
		usage()
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) cmdLogin(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("login", flag.ContinueOnError)
	username := flags.String("u", "", "username")
	password := flags.String("p", "", "password")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *username == "" || *password == "" {
		return fmt.Errorf("login requires -u and -p")
	}

	if _, err := a.session.Login(ctx, *username, *password); err != nil {
		return err
	}
	fmt.Printf("Logged in as %s.\n", *username)
	return nil
}

func (a *app) cmdWhoami(ctx context.Context) error {
	if !a.session.HasToken() {
		fmt.Println("Not authenticated.")
		return nil
	}

	user, err := a.profile.Get(ctx)
	if err != nil {
		// offline fallback: show what the token itself says
		token, tokenErr := a.session.GetAccessToken(ctx)
		if tokenErr != nil || token == "" {
			return err
		}
		claims, claimsErr := (session.TokenDetails{Token: token}).Claims()
		if claimsErr != nil {
			return err
		}
		fmt.Printf("Subject (from token): %v\n", claims["sub"])
		return nil
	}

	fmt.Printf("%s (#%d)", user.Nickname, user.ID)
	if a.session.IsLoggedIn() {
		fmt.Printf(", logged in as %s", user.Username)
	} else {
		fmt.Print(", anonymous identity")
	}
	fmt.Println()
	return nil
}

func (a *app) cmdPosts(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("posts", flag.ContinueOnError)
	page := flags.Int64("page", 1, "page number")
	keyword := flags.String("search", "", "search keyword")
	tag := flags.String("tag", "", "filter by tag")
	if err := flags.Parse(args); err != nil {
		return err
	}

	var (
		articles []api.Article
		err      error
	)
	switch {
	case *keyword != "":
		articles, err = a.posts.SearchPosts(ctx, *keyword, *page)
	case *tag != "":
		articles, err = a.posts.GetPostsByTag(ctx, *tag, *page)
	default:
		articles, err = a.posts.GetPosts(ctx, *page)
	}
	if err != nil {
		return err
	}

	for _, article := range articles {
		tagNames := make([]string, 0, len(article.Tags))
		for _, t := range article.Tags {
			tagNames = append(tagNames, t.Name)
		}
		fmt.Printf("#%d  %s", article.ID, article.Title)
		if len(tagNames) > 0 {
			fmt.Printf("  [%s]", strings.Join(tagNames, ", "))
		}
		fmt.Println()
	}
	return nil
}

func (a *app) cmdPost(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("post", flag.ContinueOnError)
	id := flags.Int64("id", 0, "post id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *id == 0 {
		return fmt.Errorf("post requires -id")
	}

	article, err := a.posts.GetPostByID(ctx, *id)
	if err != nil {
		return err
	}

	likes, err := a.likes.GetPostLikes(ctx, *id)
	if err != nil {
		likes = 0
	}

	fmt.Printf("%s\n\n%s\n\n♥ %d\n", article.Title, article.Content, likes)
	return nil
}

func (a *app) cmdComments(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("comments", flag.ContinueOnError)
	postID := flags.Int64("post", 0, "post id")
	page := flags.Int64("page", 1, "page number")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *postID == 0 {
		return fmt.Errorf("comments requires -post")
	}

	comments, err := a.comments.GetCommentsByPostID(ctx, *postID, *page)
	if err != nil {
		return err
	}

	for _, comment := range comments {
		fmt.Printf("#%d %s: %s\n", comment.ID, comment.AuthorNickname, comment.Content)
	}
	return nil
}

func (a *app) cmdComment(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("comment", flag.ContinueOnError)
	postID := flags.Int64("post", 0, "post id")
	message := flags.String("m", "", "comment text")
	replyTo := flags.Int64("reply-to", 0, "comment id to reply to")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *postID == 0 && *replyTo == 0 {
		return fmt.Errorf("comment requires -post or -reply-to")
	}
	if *message == "" {
		return fmt.Errorf("comment requires -m")
	}

	// commenting needs a token; an anonymous identity is enough
	if _, err := a.session.GetNewIdentity(ctx); err != nil {
		return err
	}

	request := api.CommentRequest{Content: *message}
	if *replyTo != 0 {
		return a.comments.AddReply(ctx, *replyTo, request)
	}
	return a.comments.AddComment(ctx, *postID, request)
}

func (a *app) cmdLike(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("like", flag.ContinueOnError)
	postID := flags.Int64("post", 0, "post id")
	commentID := flags.Int64("comment", 0, "comment id")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if _, err := a.session.GetNewIdentity(ctx); err != nil {
		return err
	}

	switch {
	case *postID != 0:
		return a.likes.LikePost(ctx, *postID)
	case *commentID != 0:
		return a.likes.LikeComment(ctx, *commentID)
	default:
		return fmt.Errorf("like requires -post or -comment")
	}
}

func (a *app) cmdTags(ctx context.Context) error {
	tags, err := a.tags.GetAllTags(ctx)
	if err != nil {
		return err
	}
	for _, tag := range tags {
		fmt.Printf("%s (%d)\n", tag.Name, tag.PostCount)
	}
	return nil
}

func (a *app) cmdStatus(ctx context.Context) error {
	if err := a.config.InitialConfig(ctx); err != nil {
		return err
	}

	title, _ := a.config.GetConfig(siteconfig.KeyBlogTitle)
	subtitle, _ := a.config.GetConfig(siteconfig.KeyBlogSubtitle)

	displayBanner(title)
	if subtitle != "" {
		fmt.Println(subtitle)
	}
	return nil
}

func (a *app) cmdWatch(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("watch", flag.ContinueOnError)
	postID := flags.String("post", "", "post id")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if *postID == "" {
		return fmt.Errorf("watch requires -post")
	}

	err := a.notify.Connect(*postID, func(messageType notify.MessageType) {
		switch messageType {
		case notify.TypeNewComment:
			fmt.Println("New comment.")
		case notify.TypeLikePost:
			fmt.Println("Post liked.")
		case notify.TypeLikeComment:
			fmt.Println("Comment liked.")
		}
	})
	if err != nil {
		return err
	}
	defer a.notify.Close()

	fmt.Printf("Watching post %s. Ctrl-C to stop.\n", *postID)
	waitForStopSignal()
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func displayBanner(title string) {
	if title == "" {
		title = "PlumaSphere"
	}
	myFigure := figure.NewFigure(title, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}

func usage() {
	fmt.Println(`pluma - PlumaSphere client

Commands:
  login -u <user> -p <pass>    log in
  logout                       log out and clear the local session
  whoami                       show the current identity
  posts [-page N] [-search Q] [-tag T]
  post -id N                   read one post
  comments -post N [-page N]   list a post's comments
  comment -post N -m <text>    add a comment (anonymous identity ok)
  comment -reply-to N -m <text>
  like -post N | -comment N    like a post or comment
  tags                         list tags
  status                       show site title/subtitle
  watch -post N                stream live notifications for a post`)
}
