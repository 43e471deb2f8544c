package pam

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zero-day-ai/cmdout/plugin"
	"github.com/zero-day-ai/cmdout/record"
	"github.com/zero-day-ai/cmdout/source"
)

const pamConf = `# PAM configuration, pam.conf format
OTHER   auth      required   pam_deny.so
OTHER   account   required   pam_deny.so
sshd    auth      required   pam_unix.so  nullok
login   auth      [success=ok new_authtok_reqd=ok ignore=ignore default=bad]  pam_unix.so  nullok
custom  auth      required   /usr/local/lib/security/pam_custom.so  debug verbose
mysqld  auth      required   pam_mysql.so  user=passwd_query passwd=mada [query=select user_name from users where user='%u']
`

const commonAuth = `# common-auth
auth    [success=1 default=ignore]  pam_unix.so nullok
auth    requisite                   pam_deny.so
auth    required                    pam_permit.so
@include common-session
`

const sshdConf = `account  required  pam_nologin.so
session  required  pam_limits.so \
    conf=/etc/security/limits.conf
`

func collectionWith(t *testing.T, files map[string]string) *source.Collection {
	t.Helper()

	fsys := fstest.MapFS{}
	for name, content := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(content)}
	}
	return source.NewCollection(fsys, nil)
}

func records(t *testing.T, files map[string]string) []record.Record {
	t.Helper()

	p, err := New(nil)
	require.NoError(t, err)

	recs, err := p.Parse(context.Background(), collectionWith(t, files))
	require.NoError(t, err)
	return recs
}

func byService(recs []record.Record, service string) []record.Record {
	var out []record.Record
	for _, r := range recs {
		if r.Field("service") == service {
			out = append(out, r)
		}
	}
	return out
}

func TestPamConfFormat(t *testing.T) {
	recs := records(t, map[string]string{"etc/pam.conf": pamConf})
	require.Len(t, recs, 6)

	t.Run("simple rule", func(t *testing.T) {
		other := byService(recs, "OTHER")[0]
		assert.Equal(t, "pam", other.Tool)
		assert.Equal(t, "etc/pam.conf", other.SourceFile)
		assert.Equal(t, "auth", other.Field("module_type"))
		assert.Equal(t, "required", other.Field("control_flag"))
		assert.Equal(t, "pam_deny.so", other.Field("module_path"))
		assert.Equal(t, "pam_deny.so", other.Field("module_name"))
		assert.Equal(t, []string{}, other.Arguments)
	})

	t.Run("bracketed control flag", func(t *testing.T) {
		login := byService(recs, "login")[0]
		assert.Equal(t, "[success=ok new_authtok_reqd=ok ignore=ignore default=bad]", login.Field("control_flag"))
		assert.Equal(t, "pam_unix.so", login.Field("module_name"))
		assert.Equal(t, []string{"nullok"}, login.Arguments)
	})

	t.Run("absolute module path", func(t *testing.T) {
		custom := byService(recs, "custom")[0]
		assert.Equal(t, "/usr/local/lib/security/pam_custom.so", custom.Field("module_path"))
		assert.Equal(t, "pam_custom.so", custom.Field("module_name"))
		assert.Equal(t, []string{"debug", "verbose"}, custom.Arguments)
	})

	t.Run("bracketed argument stays whole", func(t *testing.T) {
		mysqld := byService(recs, "mysqld")[0]
		require.Len(t, mysqld.Arguments, 3)
		assert.Equal(t, "user=passwd_query", mysqld.Arguments[0])
		assert.Equal(t, "[query=select user_name from users where user='%u']", mysqld.Arguments[2])
	})
}

func TestPamDFormat(t *testing.T) {
	recs := records(t, map[string]string{
		"etc/pam.d/common-auth": commonAuth,
		"etc/pam.d/sshd":        sshdConf,
	})

	t.Run("service from filename", func(t *testing.T) {
		common := byService(recs, "common-auth")
		// Three rules; the @include directive is skipped.
		require.Len(t, common, 3)
		assert.Equal(t, "[success=1 default=ignore]", common[0].Field("control_flag"))
		assert.Equal(t, []string{"nullok"}, common[0].Arguments)
		assert.Equal(t, "pam_deny.so", common[1].Field("module_name"))
	})

	t.Run("continuation line folds", func(t *testing.T) {
		sshd := byService(recs, "sshd")
		require.Len(t, sshd, 2)
		limits := sshd[1]
		assert.Equal(t, "pam_limits.so", limits.Field("module_name"))
		assert.Equal(t, []string{"conf=/etc/security/limits.conf"}, limits.Arguments)
		assert.NotContains(t, limits.Raw, `\`)
	})
}

func TestBothFormats(t *testing.T) {
	recs := records(t, map[string]string{
		"etc/pam.conf":          pamConf,
		"etc/pam.d/common-auth": commonAuth,
	})
	assert.Len(t, recs, 9)
}

func TestCommentsAndWhitespace(t *testing.T) {
	conf := "\n# comment\n   # indented comment\n\nsshd auth required pam_unix.so nullok\n\n   \nlogin auth sufficient pam_krb5.so\n"
	recs := records(t, map[string]string{"etc/pam.conf": conf})
	require.Len(t, recs, 2)
	assert.Equal(t, "sshd", recs[0].Field("service"))
	assert.Equal(t, "login", recs[1].Field("service"))
}

func TestCheckCompatible(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("pam.conf present", func(t *testing.T) {
		c := collectionWith(t, map[string]string{"etc/pam.conf": ""})
		assert.NoError(t, p.CheckCompatible(ctx, c))
	})

	t.Run("pam.d present", func(t *testing.T) {
		c := collectionWith(t, map[string]string{"etc/pam.d/sshd": ""})
		assert.NoError(t, p.CheckCompatible(ctx, c))
	})

	t.Run("neither present", func(t *testing.T) {
		c := collectionWith(t, map[string]string{"command_outputs/ps.txt": "x"})
		assert.ErrorIs(t, p.CheckCompatible(ctx, c), plugin.ErrNotCompatible)
	})
}

func TestEmptyConfig(t *testing.T) {
	assert.Empty(t, records(t, map[string]string{"etc/pam.conf": ""}))
}

func TestModuleName(t *testing.T) {
	p, err := New(nil)
	require.NoError(t, err)
	pp := p.(*pamPlugin)

	assert.Equal(t, "pam_unix.so", pp.moduleName("pam_unix.so"))
	assert.Equal(t, "pam_unix.so", pp.moduleName("/lib/security/pam_unix.so"))
	assert.Equal(t, "pam_krb5.so", pp.moduleName("/usr/lib64/security/pam_krb5.so"))
	assert.Equal(t, "system-auth", pp.moduleName("system-auth"))
	assert.Equal(t, "common-auth", pp.moduleName("/etc/pam.d/common-auth"))
}

func TestParseModuleArguments(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", []string{}},
		{"single", "nullok", []string{"nullok"}},
		{"multiple", "nullok obscure min=4 max=8", []string{"nullok", "obscure", "min=4", "max=8"}},
		{
			"bracket group",
			"user=passwd_query passwd=mada db=eminence [query=select user_name from table where user='%u']",
			[]string{"user=passwd_query", "passwd=mada", "db=eminence", "[query=select user_name from table where user='%u']"},
		},
		{
			"multiple bracket groups",
			"arg1 [bracket1 content] arg2 [bracket2 content] arg3",
			[]string{"arg1", "[bracket1 content]", "arg2", "[bracket2 content]", "arg3"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseModuleArguments(tt.in))
		})
	}
}
