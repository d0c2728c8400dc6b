package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/IBM/sarama"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"mylist-service/backend/internal/cache"
	"mylist-service/backend/internal/entity"
	"mylist-service/backend/internal/events"
	"mylist-service/backend/internal/handler"
	"mylist-service/backend/internal/httpapi/middleware"
	"mylist-service/backend/internal/mysqldb"
)

type MyListConfig struct {
	Running struct {
		Port int `mapstructure:"port"`
	} `mapstructure:"running"`
	Redis struct {
		Addr     string `mapstructure:"addr"`
		Password string `mapstructure:"password"`
	} `mapstructure:"redis"`
	MySQL struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"mysql"`
	Kafka struct {
		Brokers []string `mapstructure:"brokers"`
		Topic   string   `mapstructure:"topic"`
	} `mapstructure:"kafka"`
	List struct {
		DefaultLimit   int `mapstructure:"default_limit"`
		MaxLimit       int `mapstructure:"max_limit"`
		PageTTLSeconds int `mapstructure:"page_ttl_seconds"`
		LockTTLMillis  int `mapstructure:"lock_ttl_millis"`
	} `mapstructure:"list"`
}

func initConfig() (*MyListConfig, error) {
	var cfg = &MyListConfig{}
	viper.SetConfigName("MyListConfig")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./backend/config")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	cfg, err := initConfig()
	if err != nil {
		log.Fatalf("init config failed: %v", err)
	}
	log.Printf("config: %+v", cfg)

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("ping redis failed: %v", err)
	}
	defer rdb.Close()

	db, err := gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("open mysql failed: %v", err)
	}
	if err := db.AutoMigrate(&entity.ListItem{}, &entity.Content{}); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}
	if err := mysqldb.SeedContent(ctx, db); err != nil {
		log.Fatalf("seed content failed: %v", err)
	}

	// Kafka 可选：没配 broker 就不发事件，核心链路照常工作
	var dispatcher *events.Dispatcher
	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Topic != "" {
		kafkaCfg := sarama.NewConfig()
		// SyncProducer 必须开启 Return.Successes
		kafkaCfg.Producer.Return.Successes = true
		kafkaCfg.Producer.RequiredAcks = sarama.WaitForLocal
		producer, err := sarama.NewSyncProducer(cfg.Kafka.Brokers, kafkaCfg)
		if err != nil {
			log.Fatalf("connect kafka failed: %v", err)
		}
		defer producer.Close()
		dispatcher = events.NewDispatcher(producer, cfg.Kafka.Topic, events.DispatcherOptions{})
	}

	store := mysqldb.NewMySQLListStore(db)
	opt := cache.Options{
		PageTTL:      time.Duration(cfg.List.PageTTLSeconds) * time.Second,
		LockTTL:      time.Duration(cfg.List.LockTTLMillis) * time.Millisecond,
		DefaultLimit: cfg.List.DefaultLimit,
		MaxLimit:     cfg.List.MaxLimit,
	}
	myList := cache.NewRedisMyList(rdb, store, dispatcher, opt)
	h := handler.NewMyListHandler(myList, cfg.List.DefaultLimit)
	ch := handler.NewContentHandler(store)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// CORS：默认关闭；直连本服务调试时设置 MYLIST_ENABLE_CORS=1 再启用，
	// 否则经网关转发会叠加出重复的 Access-Control-Allow-Origin
	if os.Getenv("MYLIST_ENABLE_CORS") == "1" {
		router.Use(cors.New(cors.Config{
			AllowOriginFunc:  func(origin string) bool { return true },
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "x-user-id"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// 路由
	r := router.Group("/my-list")
	r.Use(middleware.UserMiddleware())
	{
		r.GET("", h.GetMyList())
		r.POST("", h.AddToMyList())
		r.DELETE("/:contentId", h.RemoveFromMyList())
	}
	// 演示用：往内容目录里塞数据
	router.POST("/content", ch.CreateContent())
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	router.Run(fmt.Sprintf(":%d", cfg.Running.Port))
}
