package router

import (
	"context"
	"fmt"
	"net/http"

	"arcronym/internal/api/v1/form"
	"arcronym/internal/api/v1/handler"
	"arcronym/internal/config"
	"arcronym/internal/middleware"
	"arcronym/internal/pubsub"
	"arcronym/internal/repository"
	"arcronym/internal/service"
	"arcronym/internal/widget"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	awsmiddleware "github.com/aws/smithy-go/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// New wires the application. The returned function releases the connections it opened.
func New(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (http.Handler, func(), error) {
	logger.Info().Str("environment", cfg.Environment).Msg("App environment loaded")

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	// 1. Database
	pool, err := repository.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, err
	}
	closers = append(closers, pool.Close)
	logger.Info().Msg("Database connection successful")

	// 2. Blob store
	s3Client, err := newS3Client(ctx, cfg)
	if err != nil {
		cleanup()
		return nil, nil, err
	}

	// 3. Upload events
	var publisher pubsub.Publisher = pubsub.NopPublisher{}
	if cfg.PubSubResourceTopic != "" {
		p, err := pubsub.NewPublisher(ctx, cfg.GCP)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		closers = append(closers, func() { _ = p.Close() })
		publisher = p
	}

	// 4. Session key
	var secrets service.SecretSource
	if cfg.SessionSecretName != "" {
		sm, err := service.NewSecretManagerSource(ctx, cfg)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		defer sm.Close()
		secrets = sm
	}
	sessionKey, err := service.SessionKey(ctx, cfg, secrets)
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("loading session key: %w", err)
	}

	// 5. Repositories, services and handlers
	courseRepo := repository.NewCourseRepo(pool)
	resourceRepo := repository.NewResourceRepo(pool)
	shareRepo := repository.NewShareRepo(pool)
	userRepo := repository.NewUserRepo(pool)

	userSvc := service.NewUserService(userRepo, logger)
	courseSvc := service.NewCourseService(courseRepo, resourceRepo, shareRepo, userRepo, logger)
	resourceSvc := service.NewResourceService(
		resourceRepo,
		service.NewS3BlobStore(s3Client, cfg.S3Bucket),
		publisher,
		cfg.PubSubResourceTopic,
		cfg.ResourceBaseURL,
		logger,
	)
	statusSvc := service.NewStatusService(courseRepo, resourceRepo)

	h := Routes(Services{
		Courses:   courseSvc,
		Resources: resourceSvc,
		Users:     userSvc,
		Status:    statusSvc,
	}, sessionKey, cfg.AllowedOrigins(), logger)
	logger.Info().Msg("Router initialized")
	return h, cleanup, nil
}

// Services are the dependencies of the HTTP layer.
type Services struct {
	Courses   service.CourseService
	Resources service.ResourceService
	Users     service.UserService
	Status    service.StatusService
}

// Routes builds the HTTP handler on top of already constructed services.
func Routes(svc Services, sessionKey string, allowedOrigins []string, logger zerolog.Logger) http.Handler {
	parser := form.NewParser(form.NewValidator())
	renderer := widget.NewRenderer(svc.Resources.ResourceURL)
	sessionMw := middleware.SessionMiddleware(sessionKey, logger)

	mux := http.NewServeMux()
	handler.NewCourseHandler(svc.Courses, svc.Users, parser, logger).RegisterRoutes(mux, sessionMw)
	handler.NewResourceHandler(svc.Resources, svc.Courses, svc.Users, parser, logger).RegisterRoutes(mux, sessionMw)
	handler.NewWidgetHandler(svc.Courses, svc.Users, renderer, logger).RegisterRoutes(mux, sessionMw)
	handler.NewStatusHandler(svc.Status).RegisterRoutes(mux)

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return middleware.LoggerMiddleware(logger)(c.Handler(mux))
}

func newS3Client(ctx context.Context, cfg *config.Config) (*s3.Client, error) {
	s3Config, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")),
		awsconfig.WithAPIOptions([]func(*awsmiddleware.Stack) error{removeDisableGzip()}),
	)
	if err != nil {
		return nil, fmt.Errorf("loading S3 config: %w", err)
	}
	return s3.NewFromConfig(s3Config, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3URL)
		o.UsePathStyle = true
	}), nil
}

// removeDisableGzip works around signature errors from some S3-compatible services.
// See: https://github.com/supabase/storage/issues/577
func removeDisableGzip() func(*awsmiddleware.Stack) error {
	return func(stack *awsmiddleware.Stack) error {
		if _, ok := stack.Finalize.Get("DisableAcceptEncodingGzip"); ok {
			_, err := stack.Finalize.Remove("DisableAcceptEncodingGzip")
			return err
		}
		return nil
	}
}
