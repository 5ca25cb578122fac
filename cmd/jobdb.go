package cmd

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"

	"github.com/ajvb/jobboard/job"
	"github.com/ajvb/jobboard/job/storage/boltdb"
	"github.com/ajvb/jobboard/job/storage/consul"
	"github.com/ajvb/jobboard/job/storage/mongo"
	"github.com/ajvb/jobboard/job/storage/mysql"
	"github.com/ajvb/jobboard/job/storage/postgres"
	"github.com/ajvb/jobboard/job/storage/redis"

	redislib "github.com/gomodule/redigo/redis"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/mgo.v2"
)

// openJobDB builds the job store selected by --jobdb. Connection problems
// are logged by the backend; the returned store then fails each call.
func openJobDB() job.JobDB {
	if viper.GetBool("no-persist") {
		log.Warn("No-persist mode engaged; using in-memory database!")
		return &job.MockDB{}
	}

	collection := viper.GetString("jobdb-collection")

	switch viper.GetString("jobdb") {
	case "mongo":
		cred := &mgo.Credential{}
		if viper.GetString("jobdb-username") != "" {
			cred = &mgo.Credential{
				Username: viper.GetString("jobdb-username"),
				Password: viper.GetString("jobdb-password")}
		}
		return mongo.New(viper.GetString("jobdb-address"), cred, viper.GetString("jobdb-database"), collection)
	case "boltdb":
		return boltdb.GetBoltDB(viper.GetString("bolt-path"), collection)
	case "redis":
		if viper.GetString("jobdb-password") != "" {
			option := redislib.DialPassword(viper.GetString("jobdb-password"))
			return redis.New(viper.GetString("jobdb-address"), collection, option)
		}
		return redis.New(viper.GetString("jobdb-address"), collection)
	case "consul":
		return consul.New(viper.GetString("jobdb-address"), collection)
	case "postgres":
		dsn := fmt.Sprintf("postgres://%s:%s@%s", viper.GetString("jobdb-username"), viper.GetString("jobdb-password"), viper.GetString("jobdb-address"))
		return postgres.New(dsn, collection)
	case "mysql", "mariadb":
		dsn := fmt.Sprintf("%s:%s@%s", viper.GetString("jobdb-username"), viper.GetString("jobdb-password"), viper.GetString("jobdb-address"))
		log.Debug("Mysql/Maria DSN: ", dsn)
		return mysql.New(dsn, collection, mysqlTLSConfig())
	default:
		log.Fatalf("Unknown Job DB implementation '%s'", viper.GetString("jobdb"))
	}
	return nil
}

func mysqlTLSConfig() *tls.Config {
	if viper.GetString("jobdb-tls-capath") == "" {
		return nil
	}
	// https://godoc.org/github.com/go-sql-driver/mysql#RegisterTLSConfig
	rootCertPool := x509.NewCertPool()
	pem, err := os.ReadFile(viper.GetString("jobdb-tls-capath"))
	if err != nil {
		log.Fatal(err)
	}
	if ok := rootCertPool.AppendCertsFromPEM(pem); !ok {
		log.Fatal("Failed to append PEM.")
	}
	clientCert := make([]tls.Certificate, 0, 1)
	certs, err := tls.LoadX509KeyPair(viper.GetString("jobdb-tls-certpath"), viper.GetString("jobdb-tls-keypath"))
	if err != nil {
		log.Fatal(err)
	}
	clientCert = append(clientCert, certs)
	return &tls.Config{
		RootCAs:      rootCertPool,
		Certificates: clientCert,
		ServerName:   viper.GetString("jobdb-tls-servername"),
	}
}

func addJobDBFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("no-persist", "n", false, "No Persistence Mode - In this mode no data will be saved to the database. Perfect for testing.")
	cmd.Flags().String("jobdb", "mongo", "Implementation of job database, either 'mongo', 'boltdb', 'redis', 'consul', 'postgres', 'mariadb', or 'mysql'.")
	cmd.Flags().String("bolt-path", "", "Path to the bolt database file, default is current directory.")
	cmd.Flags().String("jobdb-address", "localhost:27017", "Network address for the job database, in 'host:port' format.")
	cmd.Flags().String("jobdb-username", "", "Username for the job database.")
	cmd.Flags().String("jobdb-password", "", "Password for the job database.")
	cmd.Flags().String("jobdb-database", mongo.DefaultDatabase, "Mongo database holding the jobs collection.")
	cmd.Flags().String("jobdb-collection", mongo.DefaultCollection, "Collection, table, bucket, hash or key prefix the jobs are stored under.")
	cmd.Flags().String("jobdb-tls-capath", "", "Path to tls server CA file for the job database.")
	cmd.Flags().String("jobdb-tls-certpath", "", "Path to tls client cert file for the job database.")
	cmd.Flags().String("jobdb-tls-keypath", "", "Path to tls client key file for the job database.")
	cmd.Flags().String("jobdb-tls-servername", "", "Server name to verify cert for the job database.")
}
