package base

import (
	"os"
	"reflect"

	"github.com/tidwall/gjson"
)

var Config struct {
	Addr  string `config:"addr"`
	Pgsql string `config:"pgsql"`

	LogLevel  string `config:"log.level"`
	LogFormat string `config:"log.format"`

	PodcastIndexAPI    string `config:"podcastindex.api"`
	PodcastIndexKey    string `config:"podcastindex.key"`
	PodcastIndexSecret string `config:"podcastindex.secret"`

	AuthSecret  string `config:"auth.secret"`
	AdminSecret string `config:"auth.admin_secret"`

	WorkerToken string `config:"worker.token"`

	NostrKey    string   `config:"nostr.key"`
	NostrRelays []string `config:"nostr.relays"`

	QiniuAK     string `config:"qiniu.ak"`
	QiniuSK     string `config:"qiniu.sk"`
	QiniuBucket string `config:"qiniu.bucket"`
	QiniuDomain string `config:"qiniu.domain"`
}

func InitConfig() {
	file, _ := os.ReadFile("config.json")
	LoadConfig(string(file))
}

// LoadConfig fills Config from a JSON document, keyed by the `config` tag.
func LoadConfig(content string) {
	g := gjson.Parse(content)

	var (
		v           = reflect.ValueOf(&Config).Elem()
		t           = v.Type()
		stringType  = reflect.TypeOf("")
		stringsType = reflect.TypeOf([]string(nil))
	)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		name := field.Tag.Get("config")
		if name == "" {
			continue
		}
		switch field.Type {
		case stringType:
			v.Field(i).SetString(g.Get(name).String())
		case stringsType:
			var ss []string
			for _, e := range g.Get(name).Array() {
				ss = append(ss, e.String())
			}
			v.Field(i).Set(reflect.ValueOf(ss))
		default:
			panic("unsupported type")
		}
	}
}
