package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"strings"
	"time"

	"github.com/imroc/req/v3"
	"github.com/qiniu/go-sdk/v7/storagev2/credentials"
	"github.com/qiniu/go-sdk/v7/storagev2/http_client"
	"github.com/qiniu/go-sdk/v7/storagev2/uploader"

	"github.com/bitpunk-fm/zinecast/internal/base"
)

var client = req.C().SetTimeout(60 * time.Second).SetUserAgent("zinecast/1.0")

// MirrorConfigured reports whether qiniu credentials are present.
func MirrorConfigured() bool {
	return base.Config.QiniuAK != "" && base.Config.QiniuSK != "" && base.Config.QiniuBucket != ""
}

// MirrorArtwork downloads remote artwork and re-hosts it on the bucket so
// album art survives flaky origin CDNs. Returns the mirrored URL.
func MirrorArtwork(ctx context.Context, srcURL, name string) (string, error) {
	if !MirrorConfigured() {
		return srcURL, nil
	}

	ext := strings.TrimPrefix(path.Ext(srcURL), ".")
	if ext == "" || len(ext) > 4 {
		ext = "jpg"
	}
	key := fmt.Sprintf("zinecast/art/%s.%s", name, ext)

	tmp, err := os.CreateTemp("", "zinecast-art-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())
	tmp.Close()

	resp, err := client.R().SetContext(ctx).SetOutputFile(tmp.Name()).Get(srcURL)
	if err != nil {
		return "", fmt.Errorf("download artwork: %w", err)
	}
	if resp.IsErrorState() {
		return "", fmt.Errorf("download artwork: status %d", resp.StatusCode)
	}

	mac := credentials.NewCredentials(base.Config.QiniuAK, base.Config.QiniuSK)
	uploadManager := uploader.NewUploadManager(&uploader.UploadManagerOptions{
		Options: http_client.Options{
			Credentials: mac,
		},
	})
	err = uploadManager.UploadFile(ctx, tmp.Name(), &uploader.ObjectOptions{
		BucketName: base.Config.QiniuBucket,
		ObjectName: &key,
		FileName:   key,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("upload artwork: %w", err)
	}
	return fmt.Sprintf("https://%s/%s", base.Config.QiniuDomain, key), nil
}
