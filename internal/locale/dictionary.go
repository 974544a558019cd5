package locale

// trDictionary lists frequent recogniser misspellings of Turkish words,
// almost all of them lost diacritics. Identity entries are kept so that the
// table documents words that were checked and need no change.
var trDictionary = []Replacement{
	// verbs
	{"degil", "değil"},
	{"degilim", "değilim"},
	{"degilsin", "değilsin"},
	{"degiliz", "değiliz"},
	{"oyle", "öyle"},
	{"boyle", "böyle"},
	{"soyle", "söyle"},
	{"soylemek", "söylemek"},
	{"soyluyorum", "söylüyorum"},
	{"soyledi", "söyledi"},
	{"gormek", "görmek"},
	{"gordum", "gördüm"},
	{"goruyor", "görüyor"},
	{"goruyorum", "görüyorum"},
	{"gorus", "görüş"},
	{"gorusmek", "görüşmek"},
	{"gorusuruz", "görüşürüz"},
	{"gorusme", "görüşme"},
	{"dusun", "düşün"},
	{"dusunmek", "düşünmek"},
	{"dusunuyorum", "düşünüyorum"},
	{"dusundugum", "düşündüğüm"},
	{"dusunce", "düşünce"},
	{"gelmis", "gelmiş"},
	{"geliyor", "geliyor"},
	{"gelecek", "gelecek"},
	{"gidiyorum", "gidiyorum"},
	{"gitmis", "gitmiş"},
	{"gidecek", "gidecek"},
	{"yapmis", "yapmış"},
	{"yapiyorum", "yapıyorum"},
	{"yapacak", "yapacak"},
	{"etmis", "etmiş"},
	{"olmis", "olmuş"},
	{"oluyor", "oluyor"},
	{"olmus", "olmuş"},
	{"olmak", "olmak"},
	{"vermis", "vermiş"},
	{"veriyor", "veriyor"},
	{"almis", "almış"},
	{"aliyor", "alıyor"},
	{"bilmis", "bilmiş"},
	{"biliyor", "biliyor"},
	{"biliyorum", "biliyorum"},
	{"koymak", "koymak"},
	{"koymus", "koymuş"},
	{"gecmis", "geçmiş"},
	{"gecmek", "geçmek"},
	{"geciyor", "geçiyor"},
	{"baslamis", "başlamış"},
	{"baslamak", "başlamak"},
	{"basliyor", "başlıyor"},
	{"calisma", "çalışma"},
	{"calismak", "çalışmak"},
	{"calisiyorum", "çalışıyorum"},
	{"calisiyor", "çalışıyor"},
	{"calistim", "çalıştım"},
	{"ogrenmek", "öğrenmek"},
	{"ogrendim", "öğrendim"},
	{"ogreniyor", "öğreniyor"},

	// nouns
	{"tesekkur", "teşekkür"},
	{"tesekkurler", "teşekkürler"},
	{"musteri", "müşteri"},
	{"musteriler", "müşteriler"},
	{"ogrenci", "öğrenci"},
	{"ogrenciler", "öğrenciler"},
	{"ogretmen", "öğretmen"},
	{"ogretmenler", "öğretmenler"},
	{"goruntuleme", "görüntüleme"},
	{"dunya", "dünya"},
	{"dunyanin", "dünyanın"},
	{"urun", "ürün"},
	{"urunler", "ürünler"},
	{"uretim", "üretim"},
	{"surec", "süreç"},
	{"surecler", "süreçler"},
	{"iletisim", "iletişim"},
	{"gelisim", "gelişim"},
	{"gelistirme", "geliştirme"},
	{"gelistirmek", "geliştirmek"},
	{"yonetim", "yönetim"},
	{"yonetici", "yönetici"},
	{"yoneticiler", "yöneticiler"},
	{"donus", "dönüş"},
	{"donusum", "dönüşüm"},
	{"disari", "dışarı"},
	{"icin", "için"},
	{"gercek", "gerçek"},
	{"gercekten", "gerçekten"},
	{"gerceklestirilmek", "gerçekleştirilmek"},
	{"ozur", "özür"},
	{"lutfen", "lütfen"},
	{"gunluk", "günlük"},
	{"gozluk", "gözlük"},
	{"musluk", "musluk"},
	{"universite", "üniversite"},
	{"universitelerin", "üniversitelerin"},
	{"kutuphane", "kütüphane"},
	{"hastane", "hastane"},
	{"belediye", "belediye"},
	{"kultur", "kültür"},
	{"kulturel", "kültürel"},
	{"mulk", "mülk"},
	{"mulkiyet", "mülkiyet"},

	// adjectives and adverbs
	{"guzel", "güzel"},
	{"onemli", "önemli"},
	{"onemi", "önemi"},
	{"ozel", "özel"},
	{"ozgur", "özgür"},
	{"ozgurluk", "özgürlük"},
	{"guclu", "güçlü"},
	{"gucsuz", "güçsüz"},
	{"buyuk", "büyük"},
	{"buyukler", "büyükler"},
	{"kucuk", "küçük"},
	{"kucukler", "küçükler"},
	{"yuksek", "yüksek"},
	{"dusuk", "düşük"},
	{"uzun", "uzun"},
	{"mumkun", "mümkün"},
	{"mumkunse", "mümkünse"},
	{"basarili", "başarılı"},
	{"basariyla", "başarıyla"},
	{"olaganustu", "olağanüstü"},
	{"mukemmel", "mükemmel"},
	{"harika", "harika"},

	// conjunctions and postpositions
	{"cunki", "çünkü"},
	{"cunku", "çünkü"},
	{"yuzunden", "yüzünden"},
	{"uzerine", "üzerine"},
	{"uzerinde", "üzerinde"},
	{"uzerinden", "üzerinden"},
	{"ustunde", "üstünde"},
	{"ustune", "üstüne"},
	{"dolayi", "dolayı"},
	{"dolayisiyla", "dolayısıyla"},
	{"oturu", "ötürü"},
	{"itibaren", "itibaren"},

	// proper names
	{"turkce", "Türkçe"},
	{"turkiye", "Türkiye"},
	{"istanbul", "İstanbul"},
	{"ankara", "Ankara"},
	{"izmir", "İzmir"},
	{"antalya", "Antalya"},

	// frequent one-offs
	{"cok", "çok"},
	{"isin", "işin"},
	{"isler", "işler"},
	{"islem", "işlem"},
	{"islemler", "işlemler"},
	{"kalca", "kalça"},
	{"sayi", "sayı"},
	{"sayilar", "sayılar"},
	{"sorun", "sorun"},
	{"sorunlar", "sorunlar"},
	{"cozum", "çözüm"},
	{"cozumler", "çözümler"},
	{"cozmek", "çözmek"},
	{"cesit", "çeşit"},
	{"cesitli", "çeşitli"},
	{"ceviri", "çeviri"},
	{"cevre", "çevre"},
	{"cevresinde", "çevresinde"},
	{"sicak", "sıcak"},
	{"soguk", "soğuk"},
	{"komsuluk", "komşuluk"},
	{"dusman", "düşman"},
}

// loanwords are English terms common in Turkish speech. Locale tables never
// rewrite them ("gun" must not become "gün" in "gun control").
var loanwords = set(
	// technology and business
	"meeting", "project", "deadline", "email", "mail", "feature",
	"bug", "fix", "update", "release", "deploy", "server", "client",
	"database", "cloud", "app", "software", "hardware", "network",
	"online", "offline", "laptop", "desktop", "mobile", "tablet",
	"startup", "feedback", "design", "developer", "manager", "team",
	"sprint", "scrum", "agile", "backend", "frontend", "fullstack",
	"api", "url", "link", "click", "login", "logout", "signup",
	"password", "username", "admin", "dashboard", "report", "status",
	"live", "stream", "video", "audio", "podcast", "blog", "post",
	"comment", "share", "like", "follow", "subscribe", "content",
	"marketing", "brand", "target", "budget", "plan", "strategy",
	"performance", "data", "analytics", "insight", "trend", "growth",
	"slide", "presentation", "demo", "pitch", "brief", "scope",
	"task", "issue", "ticket", "board", "workflow", "pipeline",
	"push", "pull", "merge", "commit", "branch", "repository",
	"test", "debug", "log", "error", "warning", "crash", "build",
	"run", "stop", "start", "reset", "setup", "config", "setting",
	"file", "folder", "drive", "storage", "backup", "restore",
	"install", "download", "upload", "import", "export",
	"zoom", "slack", "teams", "discord", "notion", "figma",
	"google", "microsoft", "apple", "amazon", "meta", "twitter",
	"youtube", "instagram", "whatsapp", "telegram", "linkedin",
	"react", "node", "python", "java", "rust", "docker", "linux",
	// everyday
	"gun", "ok", "cool", "nice", "super", "top", "best", "good",
	"great", "perfect", "awesome", "amazing", "excellent",
	"sorry", "thanks", "thank", "please", "hello", "hi", "bye",
	"yes", "no", "maybe", "sure", "right", "left",
	"black", "white", "blue", "red", "green", "pink", "gold",
	"big", "small", "fast", "slow", "new", "old", "hot", "cold",
	"time", "date", "day", "week", "month", "year",
	"shop", "store", "market", "mall", "cafe", "restaurant",
	"fitness", "gym", "spa", "yoga", "diet", "vegan",
	"style", "fashion", "look", "show", "event", "party",
	"check", "list", "note", "pin", "tag", "label",
)
