package isbn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bneRespuesta = `<?xml version="1.0" encoding="UTF-8"?>
<searchRetrieveResponse xmlns="http://www.loc.gov/zing/srw/">
  <version>1.2</version>
  <numberOfRecords>1</numberOfRecords>
  <records>
    <record>
      <recordSchema>dc</recordSchema>
      <recordData>
        <srw_dc:dc xmlns:srw_dc="info:srw/schema/1/dc-schema" xmlns:dc="http://purl.org/dc/elements/1.1/">
          <dc:title>La Regenta [Texto impreso] :</dc:title>
          <dc:contributor>Alas, Leopoldo</dc:contributor>
          <dc:publisher>Cátedra</dc:publisher>
          <dc:date>[1984]</dc:date>
          <dc:description>Edición de Juan Oleza</dc:description>
        </srw_dc:dc>
      </recordData>
    </record>
  </records>
</searchRetrieveResponse>`

func TestCleanTitle(t *testing.T) {
	assert.Equal(t, "La Regenta", CleanTitle("La Regenta [Texto impreso] :"))
	assert.Equal(t, "Mapa de Castilla", CleanTitle("Mapa de Castilla [CARTOGRAFÍA]"))
	assert.Equal(t, "Niebla: nivola", CleanTitle(fullTitle("Niebla", "nivola")))
	assert.Equal(t, "", CleanTitle(""))
}

func TestGoogleBooks_LookupISBN(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "isbn:9780141439518", r.URL.Query().Get("q"))
		assert.Equal(t, "clave", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{"items":[{"volumeInfo":{"title":"Pride and Prejudice","subtitle":"a novel",
			"authors":["Jane Austen"],"publisher":"Penguin","publishedDate":"2003-01-30","pageCount":480,
			"language":"en","imageLinks":{"thumbnail":"http://books.google.com/x.jpg"}}}]}`))
	}))
	defer srv.Close()

	g := NewGoogleBooks("clave", time.Second)
	g.baseURL = srv.URL
	m, err := g.LookupISBN(context.Background(), "9780141439518")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "Pride and Prejudice: a novel", m.Title)
	assert.Equal(t, []string{"Jane Austen"}, m.Authors)
	assert.Equal(t, 480, m.Pages)
	assert.Equal(t, "https://books.google.com/x.jpg", m.CoverURL)
	assert.Equal(t, "9780141439518", m.ISBN)
}

func TestGoogleBooks_SinResultadosYErrores(t *testing.T) {
	var status atomic.Int32
	status.Store(http.StatusOK)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(int(status.Load()))
		_, _ = w.Write([]byte(`{"totalItems":0}`))
	}))
	defer srv.Close()
	g := NewGoogleBooks("", time.Second)
	g.baseURL = srv.URL

	m, err := g.LookupISBN(context.Background(), "9780000000000")
	require.NoError(t, err)
	assert.Nil(t, m)

	status.Store(http.StatusTooManyRequests)
	_, err = g.LookupISBN(context.Background(), "9780000000000")
	assert.ErrorContains(t, err, "HTTP 429")
}

func TestGoogleBooks_SearchBook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "intitle:Niebla inauthor:Unamuno inpublisher:Cátedra 1914", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("maxResults"))
		_, _ = w.Write([]byte(`{"items":[{"volumeInfo":{"title":"Niebla","authors":["Miguel de Unamuno"],
			"industryIdentifiers":[{"type":"ISBN_10","identifier":"8437601263"},{"type":"ISBN_13","identifier":"978-8437601267"}]}}]}`))
	}))
	defer srv.Close()
	g := NewGoogleBooks("", time.Second)
	g.baseURL = srv.URL

	m, err := g.SearchBook(context.Background(), "Niebla", "Unamuno", "Cátedra", 1914)
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "9788437601267", m.ISBN)
	assert.Equal(t, "es", m.Language)
}

func TestOpenLibrary_LookupISBN(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "data", r.URL.Query().Get("jscmd"))
		_, _ = w.Write([]byte(`{"ISBN:9788437604947":{"title":"Cien años de soledad","authors":[{"name":"Gabriel García Márquez"}],
			"publishers":[{"name":"Cátedra"}],"publish_date":"1987","number_of_pages":550,
			"subjects":[{"name":"a"},{"name":"b"},{"name":"c"},{"name":"d"}],"cover":{"medium":"https://covers/m.jpg"}}}`))
	}))
	defer srv.Close()
	o := NewOpenLibrary(time.Second)
	o.baseURL = srv.URL

	m, err := o.LookupISBN(context.Background(), "9788437604947")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "Cátedra", m.Publisher)
	assert.Equal(t, []string{"Gabriel García Márquez"}, m.Authors)
	assert.Equal(t, []string{"a", "b", "c"}, m.Categories)
	assert.Equal(t, "https://covers/m.jpg", m.CoverURL)

	m, err = o.LookupISBN(context.Background(), "9780000000000")
	require.NoError(t, err)
	assert.Nil(t, m, "la clave no aparece en la respuesta")
}

func TestBNE_LookupISBN(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "alma.isbn=9788437604947", r.URL.Query().Get("query"))
		assert.Equal(t, "dc", r.URL.Query().Get("recordSchema"))
		_, _ = w.Write([]byte(bneRespuesta))
	}))
	defer srv.Close()
	b := NewBNE(time.Second)
	b.baseURL = srv.URL

	m, err := b.LookupISBN(context.Background(), "9788437604947")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "La Regenta", m.Title)
	assert.Equal(t, []string{"Alas, Leopoldo"}, m.Authors, "sin creator se usa contributor")
	assert.Equal(t, "Cátedra", m.Publisher)
	assert.Equal(t, "1984", m.PublishedDate)
	assert.Equal(t, "9788437604947", m.ISBN)
}

func TestParseBNERecord_SinRegistros(t *testing.T) {
	m, err := parseBNERecord([]byte(`<searchRetrieveResponse><numberOfRecords>0</numberOfRecords></searchRetrieveResponse>`))
	require.NoError(t, err)
	assert.Nil(t, m)

	_, err = parseBNERecord([]byte(`<roto`))
	assert.Error(t, err)
}
