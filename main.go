package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/uber-go/tally"
	promreporter "github.com/uber-go/tally/prometheus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"github.com/bitmark-inc/coronavirus-calculator/api"
	"github.com/bitmark-inc/coronavirus-calculator/consts"
	"github.com/bitmark-inc/coronavirus-calculator/country"
	"github.com/bitmark-inc/coronavirus-calculator/dataset"
	"github.com/bitmark-inc/coronavirus-calculator/epidemiology"
	"github.com/bitmark-inc/coronavirus-calculator/external/jhu"
	"github.com/bitmark-inc/coronavirus-calculator/external/s3cache"
)

const (
	demographicsFile = "demographics.csv"
	bedFile          = "world_bank_bed_data.csv"
	ageFile          = "age_data.csv"
	mortalityFile    = "mortality_and_hospitalization_by_age.csv"
)

var (
	server *api.Server
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

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("data.dir", "./data")
	viper.SetDefault("cache.object", consts.DiseaseDataObject)
	viper.SetDefault("cache.timeout", 30*time.Second)
	viper.SetDefault("cache.fallback_on_error", true)
	viper.SetDefault("live.timeout", time.Minute)
}

// loadReference reads the static tables shipped with the server.
func loadReference(dir string) (api.ReferenceData, error) {
	var reference api.ReferenceData

	ages, err := dataset.LoadAgeData(filepath.Join(dir, ageFile))
	if err != nil {
		return reference, err
	}
	mortality, err := dataset.MortalityByDemographics(filepath.Join(dir, mortalityFile))
	if err != nil {
		return reference, err
	}

	constants := epidemiology.New(ages)
	if file := viper.GetString("data.constants"); file != "" {
		f, err := os.Open(file)
		if err != nil {
			return reference, err
		}
		defer f.Close()

		if constants, err = constants.WithOverrides(f); err != nil {
			return reference, err
		}
	}

	reference = api.ReferenceData{
		Constants: constants,
		AgeData:   ages,
		Mortality: mortality,
	}
	return reference, nil
}

func main() {
	var configFile string

	initialCtx, cancelInitialization := context.WithCancel(context.Background())

	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Server is preparing to shutdown")

		if initialCtx != nil && cancelInitialization != nil {
			log.Info("Cancelling initialization")
			cancelInitialization()
			<-initialCtx.Done()
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if server != nil {
			log.Info("Shutdown dashboard api server")
			if err := server.Shutdown(ctx); err != nil {
				log.Error("Server Shutdown:", err)
			}
		}

		sentry.Flush(2 * time.Second)
		os.Exit(1)
	}()

	flag.StringVar(&configFile, "c", "./config.yaml", "[optional] path of configuration file")
	flag.Parse()

	loadConfig(configFile)

	initLog()

	// Sentry
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              viper.GetString("sentry.dsn"),
		AttachStacktrace: true,
		Environment:      viper.GetString("sentry.environment"),
		Dist:             viper.GetString("sentry.dist"),
	}); err != nil {
		log.Error(err)
	}
	log.WithField("prefix", "init").Info("Initialized sentry")

	// Metrics
	reporter := promreporter.NewReporter(promreporter.Options{})
	scope, closer := tally.NewRootScope(tally.ScopeOptions{
		Prefix:         "calculator",
		CachedReporter: reporter,
		Separator:      promreporter.DefaultSeparator,
	}, time.Second)
	defer closer.Close()

	// Static data
	dataDir := viper.GetString("data.dir")
	demographics, err := dataset.LoadDemographics(filepath.Join(dataDir, demographicsFile))
	if err != nil {
		log.Panic(err)
	}
	beds, err := dataset.PreprocessBedData(filepath.Join(dataDir, bedFile))
	if err != nil {
		log.Panic(err)
	}
	reference, err := loadReference(dataDir)
	if err != nil {
		log.Panic(err)
	}
	log.WithField("prefix", "init").Info("Loaded static data from ", dataDir)

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

	builder := country.NewBuilder(cache, fetcher, demographics, beds)
	builder.Object = viper.GetString("cache.object")
	builder.FallbackOnCacheError = viper.GetBool("cache.fallback_on_error")
	builder.Scope = scope.SubScope("country")

	registry, err := country.NewCountries(initialCtx, builder, time.Now())
	if err != nil {
		log.Panic(err)
	}
	cancelInitialization()

	// Init http server
	server = api.NewServer(registry, builder, reference, scope.SubScope("api"), reporter.HTTPHandler())
	log.WithField("prefix", "init").Info("Initialized http server")

	if err := server.Run(fmt.Sprintf(":%d", viper.GetInt("server.port"))); err != nil && err != http.ErrServerClosed {
		log.Panic(err)
	}
}
