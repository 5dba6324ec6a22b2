package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/bitmark-inc/coronavirus-calculator/consts"
	"github.com/bitmark-inc/coronavirus-calculator/external/jhu"
	"github.com/bitmark-inc/coronavirus-calculator/external/s3cache"
)

const (
	logPrefix      = "cron"
	defaultTimeout = 2 * time.Minute
)

func initLog() {
	logLevel, err := log.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(logLevel)
	}

	log.SetOutput(os.Stdout)

	log.SetFormatter(&prefixed.TextFormatter{
		ForceFormatting: true,
		FullTimestamp:   true,
	})
}

func loadConfig(file string) {
	// Config from file
	viper.SetConfigType("yaml")
	if file != "" {
		viper.SetConfigFile(file)
	}

	viper.AddConfigPath("/.config/")
	viper.AddConfigPath(".")
	err := viper.ReadInConfig()
	if err != nil {
		fmt.Println("No config file. Read config from env.")
		viper.AllowEmptyEnv(false)
	}

	// Config from env if possible
	viper.AutomaticEnv()
	viper.SetEnvPrefix("calculator")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// credentials keep the variable names of the deployment environment
	_ = viper.BindEnv("s3.access_key", "AWSAccessKeyId")
	_ = viper.BindEnv("s3.secret_key", "AWSSecretKey")

	viper.SetDefault("cache.object", consts.DiseaseDataObject)
	viper.SetDefault("cache.timeout", 30*time.Second)
	viper.SetDefault("live.timeout", time.Minute)
}

func main() {
	var configFile string

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

	cache := s3cache.New(s3cache.Config{
		Bucket:     viper.GetString("s3.bucket"),
		Region:     viper.GetString("s3.region"),
		Endpoint:   viper.GetString("s3.endpoint"),
		PathStyle:  viper.GetBool("s3.path_style"),
		AccessKey:  viper.GetString("s3.access_key"),
		SecretKey:  viper.GetString("s3.secret_key"),
		HTTPClient: &http.Client{Timeout: viper.GetDuration("cache.timeout")},
	})
	fetcher := jhu.New(viper.GetString("live.url"), &http.Client{Timeout: viper.GetDuration("live.timeout")})

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	crawler := newCrawler(fetcher, cache, viper.GetString("cache.object"))
	if !crawler.Run(ctx) {
		log.WithField("prefix", logPrefix).Error("snapshot not refreshed")
		cancel()
		os.Exit(1)
	}
}
