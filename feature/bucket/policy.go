package bucket

import (
	"encoding/json"
	"fmt"
)

// PolicyDocument is an IAM-style bucket policy.
type PolicyDocument struct {
	Version   string      `json:"Version"`
	Statement []Statement `json:"Statement"`
}

// Statement is a single policy statement.
type Statement struct {
	Sid       string `json:"Sid"`
	Effect    string `json:"Effect"`
	Principal string `json:"Principal"`
	Action    string `json:"Action"`
	Resource  string `json:"Resource"`
}

// PublicReadPolicy returns the policy granting anonymous GetObject on every key of the bucket.
func PublicReadPolicy(partition, bucket string) (string, error) {
	if partition == "" {
		partition = "aws"
	}
	doc := PolicyDocument{
		Version: "2012-10-17",
		Statement: []Statement{{
			Sid:       "PublicReadGetObject",
			Effect:    "Allow",
			Principal: "*",
			Action:    "s3:GetObject",
			Resource:  fmt.Sprintf("arn:%s:s3:::%s/*", partition, bucket),
		}},
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
