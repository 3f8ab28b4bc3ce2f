package redshiftsql

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/redshift"
	"github.com/aws/aws-sdk-go/service/redshift/redshiftiface"
	"github.com/pingcap/errors"
)

// credentialsDurationSeconds is how long fetched credentials stay valid.
// Connections outlive it; only new logins need a fresh password.
const credentialsDurationSeconds = int64(900)

func newRedshiftClient(region string) (redshiftiface.RedshiftAPI, error) {
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            aws.Config{Region: aws.String(region)},
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, errors.Annotate(err, "Failed to create AWS session")
	}
	return redshift.New(sess), nil
}

// getClusterCredentials exchanges the ambient AWS identity for a temporary
// database user and password.
func getClusterCredentials(ctx context.Context, client redshiftiface.RedshiftAPI, clusterID, dbUser, dbName string) (string, string, error) {
	out, err := client.GetClusterCredentialsWithContext(ctx, &redshift.GetClusterCredentialsInput{
		ClusterIdentifier: aws.String(clusterID),
		DbUser:            aws.String(dbUser),
		DbName:            aws.String(dbName),
		DurationSeconds:   aws.Int64(credentialsDurationSeconds),
		AutoCreate:        aws.Bool(false),
	})
	if err != nil {
		return "", "", errors.Annotate(err, "Failed to get Redshift cluster credentials")
	}
	return aws.StringValue(out.DbUser), aws.StringValue(out.DbPassword), nil
}
