package bench

import (
	"bufio"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// GenerateRandomData [0,1) 균등분포 랜덤 데이터 생성
// * 같은 seed 면 같은 데이터 (재현 가능한 벤치마크)
func GenerateRandomData(size int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))

	data := make([]float64, size)
	for i := range size {
		data[i] = rng.Float64()
	}
	return data
}

// WriteDataFile 한 줄에 숫자 하나씩 파일로 쓰기
func WriteDataFile(data []float64, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create data file %s", filename)
	}
	defer file.Close()

	// 큰 버퍼 사용으로 I/O 성능 향상
	writer := bufio.NewWriterSize(file, 64*1024)

	buf := make([]byte, 0, 32)
	for _, v := range data {
		buf = strconv.AppendFloat(buf[:0], v, 'g', -1, 64)
		buf = append(buf, '\n')
		if _, err := writer.Write(buf); err != nil {
			return errors.Wrapf(err, "write data file %s", filename)
		}
	}

	if err := writer.Flush(); err != nil {
		return errors.Wrapf(err, "flush data file %s", filename)
	}
	return file.Close()
}

// ReadDataFile WriteDataFile 형식 파일 읽기. 빈 줄은 무시.
func ReadDataFile(filename string) ([]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open data file %s", filename)
	}
	defer file.Close()

	// 파일 크기 기반으로 슬라이스 미리 할당 (평균 20자 가정)
	var data []float64
	if info, err := file.Stat(); err == nil {
		data = make([]float64, 0, info.Size()/20)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), bufio.MaxScanTokenSize)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", filename, line)
		}
		data = append(data, v)
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "read data file %s", filename)
	}
	return data, nil
}
