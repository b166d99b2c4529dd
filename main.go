package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/hamboms/kbob-dating-app/auth"
	"github.com/hamboms/kbob-dating-app/broadcast"
	"github.com/hamboms/kbob-dating-app/config"
	"github.com/hamboms/kbob-dating-app/routes"
	"github.com/hamboms/kbob-dating-app/services"
	"github.com/hamboms/kbob-dating-app/store"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Initialize DynamoDB client and stores
	log.Println("Initializing DynamoDB client...")
	dynamoClient, err := store.NewDynamoDBClient(ctx, cfg.AWSRegion)
	if err != nil {
		log.Fatalf("Failed to initialize DynamoDB client: %v", err)
	}
	db := &store.Dynamo{Client: dynamoClient}
	log.Println("DynamoDB client initialized.")

	users := &store.DynamoUserStore{DB: db}
	ledger := &store.DynamoInteractionStore{DB: db}
	messages := &store.DynamoMessageStore{DB: db}
	reports := &store.DynamoReportStore{DB: db}
	deleted := &store.DynamoDeletedUserStore{DB: db}

	// Initialize Redis, the broadcast publisher and the Socket.IO bridge
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	publisher := broadcast.NewRedisPublisher(rdb)

	socketServer := broadcast.NewSocketServer()
	go func() {
		if err := socketServer.Serve(); err != nil {
			log.Fatalf("Socket.IO server error: %v", err)
		}
	}()
	defer socketServer.Close()
	go broadcast.RunBridge(ctx, rdb, socketServer)

	// Initialize S3 for profile image uploads
	s3Client, err := services.NewS3Client(ctx, cfg.AWSRegion)
	if err != nil {
		log.Fatalf("Failed to initialize S3 client: %v", err)
	}
	s3Service := &services.S3Service{Client: s3Client, Bucket: cfg.S3Bucket}

	// Initialize Services
	mailer := &services.SMTPSender{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	}
	userService := &services.UserService{
		Users:    users,
		Deleted:  deleted,
		Ledger:   ledger,
		Messages: messages,
		Reports:  reports,
		Mail:     mailer,
		BaseURL:  cfg.BaseURL,
	}
	matchService := &services.MatchService{Users: users, Ledger: ledger}
	chatService := &services.ChatService{Messages: messages, Ledger: ledger, Broadcast: publisher}
	reportService := &services.ReportService{Users: users, Reports: reports}

	authMiddleware := &auth.Auth{Secret: []byte(cfg.JWTSecret), Users: users}

	// Initialize the router
	r := mux.NewRouter()

	// Register a welcome route
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "Welcome to kbob")
	}).Methods("GET")

	// Register a health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		response := map[string]string{"status": "healthy"}
		json.NewEncoder(w).Encode(response)
	}).Methods("GET")

	// Register routes
	secureCookies := cfg.Env == "production"
	routes.RegisterUserRoutes(r, userService, authMiddleware, secureCookies)
	routes.RegisterMatchRoutes(r, matchService, authMiddleware)
	routes.RegisterChatRoutes(r, chatService, authMiddleware)
	routes.RegisterReportRoutes(r, reportService, authMiddleware)
	routes.RegisterS3Routes(r, s3Service, authMiddleware)

	// Socket.IO endpoint for realtime chat
	r.Handle("/socket.io/", socketServer)

	// Add CORS middleware
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"}, // Adjust for specific domains if needed
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)

	// Start the HTTP server
	log.Printf("Starting server on port %s...\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, corsHandler))
}
