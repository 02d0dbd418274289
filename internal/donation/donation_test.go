package donation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ymkw/kifulog/internal/donation"
)

const fullBody = `いつもご支援ありがとうございます。
以下の内容で寄付を受け付けました。

寄付日時：2024/3/5 9:7:1
寄付者名：山田 太郎  ID:12345
寄付金額：12,345円
寄付頻度：毎月 クレジットカード

今後ともよろしくお願いいたします。
`

func TestExtractDetails(t *testing.T) {
	details, err := donation.ExtractDetails(fullBody)
	require.NoError(t, err)

	assert.Equal(t, donation.Details{
		Date:      "2024/03/05 09:07:01",
		Name:      "山田 太郎",
		Amount:    12345,
		Frequency: "毎月",
	}, details)
}

func TestExtractDetailsMissingFields(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{
			name: "missing date",
			body: "寄付者名：山田 太郎\n寄付金額：500円\n寄付頻度：毎月\n",
		},
		{
			name: "missing name",
			body: "寄付日時：2024/3/5 9:7:1\n寄付金額：500円\n寄付頻度：毎月\n",
		},
		{
			name: "missing amount",
			body: "寄付日時：2024/3/5 9:7:1\n寄付者名：山田 太郎\n寄付頻度：毎月\n",
		},
		{
			name: "missing frequency",
			body: "寄付日時：2024/3/5 9:7:1\n寄付者名：山田 太郎\n寄付金額：500円\n",
		},
		{
			name: "amount without currency unit",
			body: "寄付日時：2024/3/5 9:7:1\n寄付者名：山田 太郎\n寄付金額：500\n寄付頻度：毎月\n",
		},
		{
			name: "amount overflows int",
			body: "寄付日時：2024/3/5 9:7:1\n寄付者名：山田 太郎\n寄付金額：99999999999999999999円\n寄付頻度：毎月\n",
		},
		{name: "empty body", body: ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := donation.ExtractDetails(tc.body)
			assert.Error(t, err)
		})
	}
}

func TestExtractDetailsFieldCleanup(t *testing.T) {
	body := "寄付日時：2025/11/30 23:59:59\n" +
		"寄付者名：佐藤 花子\n" +
		"寄付金額：1,000,000円\n" +
		"寄付頻度：今回のみ\n"

	details, err := donation.ExtractDetails(body)
	require.NoError(t, err)

	// No trailing metadata: name and frequency pass through whole.
	assert.Equal(t, "佐藤 花子", details.Name)
	assert.Equal(t, "今回のみ", details.Frequency)
	assert.Equal(t, 1000000, details.Amount)
	assert.Equal(t, "2025/11/30 23:59:59", details.Date)
}

func TestExtractDetailsASCIIColon(t *testing.T) {
	body := "寄付日時: 2024/3/5 9:7:1\n" +
		"寄付者名: 山田 太郎\n" +
		"寄付金額: 500円\n" +
		"寄付頻度: 毎月\n"

	details, err := donation.ExtractDetails(body)
	require.NoError(t, err)
	assert.Equal(t, 500, details.Amount)
	assert.Equal(t, "山田 太郎", details.Name)
}
