package aws

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/stephnangue/kubecred/cred"
	"github.com/stephnangue/kubecred/logger"
)

const (
	// TokenPrefix is the scheme marker consumers of the EKS token expect.
	TokenPrefix = "k8s-aws-v1."

	// clusterIDHeader names the target cluster inside the signed request.
	clusterIDHeader = "x-k8s-aws-id"

	// globalRegion routes the presigned request to the STS global endpoint
	// when no region is configured.
	globalRegion = "aws-global"

	// presignedURLValidity is how long AWS honors the presigned request,
	// regardless of the X-Amz-Expires value encoded into it.
	presignedURLValidity = 15 * time.Minute

	// minConsumerExpiry is the smallest expiry known to work with common
	// token consumers.
	minConsumerExpiry = 60
)

// ErrInvalidRegion is returned for a region string the STS endpoint
// resolver cannot accept.
var ErrInvalidRegion = errors.New("invalid AWS region")

// ErrPresign is returned when the STS presigner fails.
var ErrPresign = errors.New("presigning STS request failed")

// EksExecCredential is the exec-credential document handed back to the
// Kubernetes client-auth machinery. Field names and values are part of the
// wire contract and must not change.
type EksExecCredential struct {
	Kind       string                  `json:"kind"`
	APIVersion string                  `json:"apiVersion"`
	Spec       map[string]interface{}  `json:"spec"`
	Status     EksExecCredentialStatus `json:"status"`
}

// EksExecCredentialStatus carries the bearer token.
type EksExecCredentialStatus struct {
	Token string `json:"token"`
}

// Regions follow the partition-name-number shape (us-east-1, ap-southeast-3,
// us-gov-west-1). Partition-global pseudo regions are accepted explicitly.
var regionPattern = regexp.MustCompile(`^[a-z]{2}(-[a-z]+)+-\d+$`)

var globalRegions = map[string]struct{}{
	"aws-global":        {},
	"aws-cn-global":     {},
	"aws-us-gov-global": {},
	"aws-iso-global":    {},
	"aws-iso-b-global":  {},
}

// ParseRegion validates a region string. An empty input selects the STS
// global endpoint.
func ParseRegion(region string) (string, error) {
	if region == "" {
		return globalRegion, nil
	}
	if _, ok := globalRegions[region]; ok {
		return region, nil
	}
	if !regionPattern.MatchString(region) {
		return "", fmt.Errorf("%w: %q", ErrInvalidRegion, region)
	}
	return region, nil
}

// MintToken exchanges a Vault AWS lease for an EKS exec credential. It
// presigns an STS GetCallerIdentity request with the lease credentials and
// the x-k8s-aws-id header bound to the cluster name, then encodes the URL
// with the k8s-aws-v1 scheme. Minting is a pure single-shot transformation;
// any presigner failure surfaces unchanged.
func MintToken(ctx context.Context, creds *cred.AwsLeaseCredentials, cluster, region, expiresIn string, log logger.Logger) (*EksExecCredential, error) {
	resolvedRegion, err := ParseRegion(region)
	if err != nil {
		return nil, err
	}

	var expirySeconds uint64
	if expiresIn != "" {
		expirySeconds, err = strconv.ParseUint(expiresIn, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid expiry %q: %w", expiresIn, err)
		}
		if expirySeconds < minConsumerExpiry {
			log.Warn("requested token expiry may be incompatible with some consumers",
				logger.Int64("expiry_seconds", int64(expirySeconds)),
				logger.Int("minimum_recommended", minConsumerExpiry),
			)
		}
		log.Warn("AWS honors the presigned request for a fixed window regardless of the encoded expiry",
			logger.Duration("validity", presignedURLValidity),
		)
	}

	stsClient := sts.NewFromConfig(aws.Config{
		Region: resolvedRegion,
		Credentials: credentials.NewStaticCredentialsProvider(
			creds.AccessKey, creds.SecretKey, creds.SecurityToken),
	})
	presigner := sts.NewPresignClient(stsClient)

	signed, err := presigner.PresignGetCallerIdentity(ctx, &sts.GetCallerIdentityInput{},
		func(po *sts.PresignOptions) {
			po.ClientOptions = append(po.ClientOptions, func(o *sts.Options) {
				o.APIOptions = append(o.APIOptions,
					smithyhttp.SetHeaderValue(clusterIDHeader, cluster))
				if expirySeconds > 0 {
					o.APIOptions = append(o.APIOptions,
						smithyhttp.SetHeaderValue("X-Amz-Expires",
							strconv.FormatUint(expirySeconds, 10)))
				}
			})
		})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPresign, err)
	}

	log.Debug("presigned STS GetCallerIdentity",
		logger.String("region", resolvedRegion),
		logger.String("cluster", cluster),
	)

	return NewExecCredential(signed.URL), nil
}

// NewExecCredential wraps a presigned URL into the exec-credential envelope.
func NewExecCredential(presignedURL string) *EksExecCredential {
	token := TokenPrefix + base64.RawURLEncoding.EncodeToString([]byte(presignedURL))
	return &EksExecCredential{
		Kind:       "ExecCredential",
		APIVersion: "client.authentication.k8s.io/v1alpha1",
		Spec:       map[string]interface{}{},
		Status:     EksExecCredentialStatus{Token: token},
	}
}
